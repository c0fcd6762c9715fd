package aws

import (
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elasticachetypes "github.com/aws/aws-sdk-go-v2/service/elasticache/types"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing/types"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	nfwtypes "github.com/aws/aws-sdk-go-v2/service/networkfirewall/types"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/eleven-am/fwaudit/internal/domain"
)

func toSecurityGroupData(sg *ec2types.SecurityGroup) *domain.SecurityGroupData {
	return &domain.SecurityGroupData{
		ID:            derefString(sg.GroupId),
		Name:          derefString(sg.GroupName),
		VPCID:         derefString(sg.VpcId),
		InboundRules:  toSecurityGroupRules(sg.IpPermissions),
		OutboundRules: toSecurityGroupRules(sg.IpPermissionsEgress),
	}
}

func toSecurityGroupRules(perms []ec2types.IpPermission) []domain.SecurityGroupRule {
	var rules []domain.SecurityGroupRule
	for _, perm := range perms {
		rule := domain.SecurityGroupRule{
			Protocol: protocolNumberToString(derefString(perm.IpProtocol)),
			FromPort: int(derefInt32(perm.FromPort)),
			ToPort:   int(derefInt32(perm.ToPort)),
		}
		for _, r := range perm.IpRanges {
			if r.CidrIp != nil {
				rule.CIDRBlocks = append(rule.CIDRBlocks, *r.CidrIp)
			}
		}
		for _, r := range perm.Ipv6Ranges {
			if r.CidrIpv6 != nil {
				rule.IPv6CIDRBlocks = append(rule.IPv6CIDRBlocks, *r.CidrIpv6)
			}
		}
		for _, pair := range perm.UserIdGroupPairs {
			if pair.GroupId != nil {
				rule.ReferencedSecurityGroups = append(rule.ReferencedSecurityGroups, *pair.GroupId)
			}
		}
		for _, pl := range perm.PrefixListIds {
			if pl.PrefixListId != nil {
				rule.PrefixListIDs = append(rule.PrefixListIDs, *pl.PrefixListId)
			}
		}
		rules = append(rules, rule)
	}
	return rules
}

func toNACLData(nacl *ec2types.NetworkAcl) *domain.NACLData {
	var inbound, outbound []domain.NACLRule
	for _, entry := range nacl.Entries {
		rule := domain.NACLRule{
			RuleNumber:    int(derefInt32(entry.RuleNumber)),
			Protocol:      protocolNumberToString(derefString(entry.Protocol)),
			CIDRBlock:     derefString(entry.CidrBlock),
			IPv6CIDRBlock: derefString(entry.Ipv6CidrBlock),
			Action:        string(entry.RuleAction),
		}
		if entry.PortRange != nil {
			rule.FromPort = int(derefInt32(entry.PortRange.From))
			rule.ToPort = int(derefInt32(entry.PortRange.To))
		}
		if entry.Egress != nil && *entry.Egress {
			outbound = append(outbound, rule)
		} else {
			inbound = append(inbound, rule)
		}
	}
	return &domain.NACLData{
		ID:            derefString(nacl.NetworkAclId),
		VPCID:         derefString(nacl.VpcId),
		InboundRules:  inbound,
		OutboundRules: outbound,
	}
}

func toManagedPrefixListData(pl *ec2types.ManagedPrefixList, entries []ec2types.PrefixListEntry) *domain.ManagedPrefixListData {
	data := &domain.ManagedPrefixListData{
		ID:   derefString(pl.PrefixListId),
		Name: derefString(pl.PrefixListName),
	}
	for _, e := range entries {
		data.Entries = append(data.Entries, domain.PrefixListEntry{
			CIDR:        derefString(e.Cidr),
			Description: derefString(e.Description),
		})
	}
	return data
}

func toEC2InstanceData(inst *ec2types.Instance) *domain.EC2InstanceData {
	var sgs []string
	for _, sg := range inst.SecurityGroups {
		if sg.GroupId != nil {
			sgs = append(sgs, *sg.GroupId)
		}
	}
	return &domain.EC2InstanceData{
		ID:             derefString(inst.InstanceId),
		PrivateIP:      derefString(inst.PrivateIpAddress),
		SecurityGroups: sgs,
		SubnetID:       derefString(inst.SubnetId),
	}
}

func toENIData(eni *ec2types.NetworkInterface) *domain.ENIData {
	var sgs []string
	for _, sg := range eni.Groups {
		if sg.GroupId != nil {
			sgs = append(sgs, *sg.GroupId)
		}
	}
	return &domain.ENIData{
		ID:             derefString(eni.NetworkInterfaceId),
		PrivateIP:      derefString(eni.PrivateIpAddress),
		SubnetID:       derefString(eni.SubnetId),
		SecurityGroups: sgs,
	}
}

func toVPCEndpointData(ep *ec2types.VpcEndpoint) *domain.VPCEndpointData {
	var sgs []string
	for _, sg := range ep.Groups {
		if sg.GroupId != nil {
			sgs = append(sgs, *sg.GroupId)
		}
	}
	return &domain.VPCEndpointData{
		ID:             derefString(ep.VpcEndpointId),
		VPCID:          derefString(ep.VpcId),
		ServiceName:    derefString(ep.ServiceName),
		Type:           string(ep.VpcEndpointType),
		SecurityGroups: sgs,
	}
}

func toRDSInstanceData(db *rdstypes.DBInstance) *domain.RDSInstanceData {
	var sgs []string
	for _, sg := range db.VpcSecurityGroups {
		if sg.VpcSecurityGroupId != nil {
			sgs = append(sgs, *sg.VpcSecurityGroupId)
		}
	}
	data := &domain.RDSInstanceData{
		ID:             derefString(db.DBInstanceIdentifier),
		SecurityGroups: sgs,
	}
	if db.Endpoint != nil {
		data.Endpoint = derefString(db.Endpoint.Address)
		data.Port = int(derefInt32(db.Endpoint.Port))
	}
	return data
}

func toLambdaFunctionData(fn *lambda.GetFunctionOutput) *domain.LambdaFunctionData {
	data := &domain.LambdaFunctionData{
		Name: derefString(fn.Configuration.FunctionName),
	}
	if fn.Configuration.VpcConfig != nil {
		data.VPCID = derefString(fn.Configuration.VpcConfig.VpcId)
		data.SecurityGroups = fn.Configuration.VpcConfig.SecurityGroupIds
	}
	return data
}

func toElastiCacheClusterData(cluster *elasticachetypes.CacheCluster) *domain.ElastiCacheClusterData {
	var sgs []string
	for _, sg := range cluster.SecurityGroups {
		if sg.SecurityGroupId != nil {
			sgs = append(sgs, *sg.SecurityGroupId)
		}
	}

	port := 0
	if cluster.ConfigurationEndpoint != nil && cluster.ConfigurationEndpoint.Port != nil {
		port = int(*cluster.ConfigurationEndpoint.Port)
	}
	for _, node := range cluster.CacheNodes {
		if port != 0 {
			break
		}
		if node.Endpoint != nil && node.Endpoint.Port != nil {
			port = int(*node.Endpoint.Port)
		}
	}

	return &domain.ElastiCacheClusterData{
		ID:             derefString(cluster.CacheClusterId),
		Engine:         derefString(cluster.Engine),
		Port:           port,
		SecurityGroups: sgs,
	}
}

func toLoadBalancerData(lb *elbv2types.LoadBalancer) *domain.LoadBalancerData {
	return &domain.LoadBalancerData{
		ARN:            derefString(lb.LoadBalancerArn),
		Name:           derefString(lb.LoadBalancerName),
		Type:           string(lb.Type),
		Scheme:         string(lb.Scheme),
		VPCID:          derefString(lb.VpcId),
		SecurityGroups: lb.SecurityGroups,
	}
}

func toCLBData(lb *elbtypes.LoadBalancerDescription) *domain.CLBData {
	return &domain.CLBData{
		Name:           derefString(lb.LoadBalancerName),
		DNSName:        derefString(lb.DNSName),
		Scheme:         derefString(lb.Scheme),
		VPCID:          derefString(lb.VPCId),
		SecurityGroups: lb.SecurityGroups,
	}
}

func toStatelessRule(rule nfwtypes.StatelessRule) domain.StatelessRule {
	out := domain.StatelessRule{
		Priority: int(derefInt32(rule.Priority)),
	}
	if rule.RuleDefinition == nil {
		return out
	}
	out.Actions = rule.RuleDefinition.Actions
	attrs := rule.RuleDefinition.MatchAttributes
	if attrs == nil {
		return out
	}
	for _, p := range attrs.Protocols {
		out.Match.Protocols = append(out.Match.Protocols, int(p))
	}
	for _, src := range attrs.Sources {
		out.Match.Sources = append(out.Match.Sources, derefString(src.AddressDefinition))
	}
	for _, dst := range attrs.Destinations {
		out.Match.Destinations = append(out.Match.Destinations, derefString(dst.AddressDefinition))
	}
	for _, pr := range attrs.DestinationPorts {
		out.Match.DestPorts = append(out.Match.DestPorts, domain.PortRangeSpec{
			From: int(pr.FromPort),
			To:   int(pr.ToPort),
		})
	}
	return out
}

func toStatefulRule(rule nfwtypes.StatefulRule) domain.StatefulRule {
	out := domain.StatefulRule{Action: string(rule.Action)}
	if h := rule.Header; h != nil {
		out.Protocol = string(h.Protocol)
		out.Source = derefString(h.Source)
		out.SourcePort = derefString(h.SourcePort)
		out.Destination = derefString(h.Destination)
		out.DestPort = derefString(h.DestinationPort)
		out.Direction = string(h.Direction)
	}
	for _, opt := range rule.RuleOptions {
		if derefString(opt.Keyword) == "sid" && len(opt.Settings) > 0 {
			out.SID = opt.Settings[0]
		}
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt32(i *int32) int32 {
	if i == nil {
		return 0
	}
	return *i
}

func protocolNumberToString(proto string) string {
	switch proto {
	case "-1":
		return "-1"
	case "6":
		return "tcp"
	case "17":
		return "udp"
	case "1":
		return "icmp"
	case "58":
		return "icmpv6"
	default:
		return proto
	}
}
