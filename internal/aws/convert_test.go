package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elasticachetypes "github.com/aws/aws-sdk-go-v2/service/elasticache/types"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	nfwtypes "github.com/aws/aws-sdk-go-v2/service/networkfirewall/types"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
)

func TestToSecurityGroupData(t *testing.T) {
	sg := &ec2types.SecurityGroup{
		GroupId:   aws.String("sg-123"),
		GroupName: aws.String("web"),
		VpcId:     aws.String("vpc-abc"),
		IpPermissions: []ec2types.IpPermission{
			{
				IpProtocol:       aws.String("6"),
				FromPort:         aws.Int32(443),
				ToPort:           aws.Int32(443),
				IpRanges:         []ec2types.IpRange{{CidrIp: aws.String("10.0.0.0/8")}},
				UserIdGroupPairs: []ec2types.UserIdGroupPair{{GroupId: aws.String("sg-lb")}},
			},
		},
		IpPermissionsEgress: []ec2types.IpPermission{
			{
				IpProtocol: aws.String("-1"),
				IpRanges:   []ec2types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
			},
		},
	}

	result := toSecurityGroupData(sg)

	if result.ID != "sg-123" || result.Name != "web" || result.VPCID != "vpc-abc" {
		t.Errorf("unexpected identity %+v", result)
	}
	if len(result.InboundRules) != 1 {
		t.Fatalf("expected 1 inbound rule, got %d", len(result.InboundRules))
	}
	in := result.InboundRules[0]
	if in.Protocol != "tcp" {
		t.Errorf("expected protocol tcp, got %s", in.Protocol)
	}
	if in.FromPort != 443 || in.ToPort != 443 {
		t.Errorf("expected port 443, got %d-%d", in.FromPort, in.ToPort)
	}
	if len(in.ReferencedSecurityGroups) != 1 || in.ReferencedSecurityGroups[0] != "sg-lb" {
		t.Errorf("expected referenced group sg-lb, got %v", in.ReferencedSecurityGroups)
	}
	if len(result.OutboundRules) != 1 || result.OutboundRules[0].Protocol != "-1" {
		t.Fatalf("expected 1 all-traffic outbound rule, got %+v", result.OutboundRules)
	}
}

func TestToSecurityGroupRules_IPv6AndPrefixLists(t *testing.T) {
	perms := []ec2types.IpPermission{
		{
			IpProtocol:    aws.String("tcp"),
			FromPort:      aws.Int32(80),
			ToPort:        aws.Int32(80),
			Ipv6Ranges:    []ec2types.Ipv6Range{{CidrIpv6: aws.String("::/0")}},
			PrefixListIds: []ec2types.PrefixListId{{PrefixListId: aws.String("pl-123")}},
		},
	}

	rules := toSecurityGroupRules(perms)

	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if len(rules[0].IPv6CIDRBlocks) != 1 || rules[0].IPv6CIDRBlocks[0] != "::/0" {
		t.Errorf("expected ::/0, got %v", rules[0].IPv6CIDRBlocks)
	}
	if len(rules[0].PrefixListIDs) != 1 || rules[0].PrefixListIDs[0] != "pl-123" {
		t.Errorf("expected pl-123, got %v", rules[0].PrefixListIDs)
	}
}

func TestToNACLData_SplitsByDirection(t *testing.T) {
	nacl := &ec2types.NetworkAcl{
		NetworkAclId: aws.String("acl-1"),
		VpcId:        aws.String("vpc-1"),
		Entries: []ec2types.NetworkAclEntry{
			{
				RuleNumber: aws.Int32(100),
				Protocol:   aws.String("6"),
				RuleAction: ec2types.RuleActionAllow,
				CidrBlock:  aws.String("10.0.0.0/16"),
				Egress:     aws.Bool(false),
				PortRange:  &ec2types.PortRange{From: aws.Int32(22), To: aws.Int32(22)},
			},
			{
				RuleNumber: aws.Int32(32767),
				Protocol:   aws.String("-1"),
				RuleAction: ec2types.RuleActionDeny,
				CidrBlock:  aws.String("0.0.0.0/0"),
				Egress:     aws.Bool(true),
			},
		},
	}

	result := toNACLData(nacl)

	if result.ID != "acl-1" || result.VPCID != "vpc-1" {
		t.Errorf("unexpected identity %+v", result)
	}
	if len(result.InboundRules) != 1 || len(result.OutboundRules) != 1 {
		t.Fatalf("expected one rule each way, got %d in %d out", len(result.InboundRules), len(result.OutboundRules))
	}
	in := result.InboundRules[0]
	if in.RuleNumber != 100 || in.Protocol != "tcp" || in.Action != "allow" {
		t.Errorf("unexpected inbound rule %+v", in)
	}
	if in.FromPort != 22 || in.ToPort != 22 {
		t.Errorf("expected port 22, got %d-%d", in.FromPort, in.ToPort)
	}
	if result.OutboundRules[0].Action != "deny" {
		t.Errorf("expected deny, got %s", result.OutboundRules[0].Action)
	}
}

func TestToManagedPrefixListData(t *testing.T) {
	pl := &ec2types.ManagedPrefixList{
		PrefixListId:   aws.String("pl-1"),
		PrefixListName: aws.String("offices"),
	}
	entries := []ec2types.PrefixListEntry{
		{Cidr: aws.String("192.0.2.0/24"), Description: aws.String("hq")},
		{Cidr: aws.String("198.51.100.0/24")},
	}

	result := toManagedPrefixListData(pl, entries)

	if result.Name != "offices" {
		t.Errorf("expected offices, got %s", result.Name)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Description != "hq" || result.Entries[1].CIDR != "198.51.100.0/24" {
		t.Errorf("unexpected entries %+v", result.Entries)
	}
}

func TestToRDSInstanceData(t *testing.T) {
	db := &rdstypes.DBInstance{
		DBInstanceIdentifier: aws.String("orders"),
		Endpoint: &rdstypes.Endpoint{
			Address: aws.String("orders.abc.rds.amazonaws.com"),
			Port:    aws.Int32(5432),
		},
		VpcSecurityGroups: []rdstypes.VpcSecurityGroupMembership{
			{VpcSecurityGroupId: aws.String("sg-db")},
		},
	}

	result := toRDSInstanceData(db)

	if result.Port != 5432 {
		t.Errorf("expected port 5432, got %d", result.Port)
	}
	if len(result.SecurityGroups) != 1 || result.SecurityGroups[0] != "sg-db" {
		t.Errorf("expected sg-db, got %v", result.SecurityGroups)
	}
}

func TestToRDSInstanceData_NoEndpoint(t *testing.T) {
	result := toRDSInstanceData(&rdstypes.DBInstance{DBInstanceIdentifier: aws.String("creating")})

	if result.Endpoint != "" || result.Port != 0 {
		t.Errorf("expected empty endpoint, got %s:%d", result.Endpoint, result.Port)
	}
}

func TestToElastiCacheClusterData_PortFromNode(t *testing.T) {
	cluster := &elasticachetypes.CacheCluster{
		CacheClusterId: aws.String("sessions"),
		Engine:         aws.String("redis"),
		CacheNodes: []elasticachetypes.CacheNode{
			{Endpoint: &elasticachetypes.Endpoint{Port: aws.Int32(6379)}},
		},
		SecurityGroups: []elasticachetypes.SecurityGroupMembership{
			{SecurityGroupId: aws.String("sg-cache")},
		},
	}

	result := toElastiCacheClusterData(cluster)

	if result.Port != 6379 {
		t.Errorf("expected port 6379, got %d", result.Port)
	}
	if len(result.SecurityGroups) != 1 {
		t.Errorf("expected 1 security group, got %d", len(result.SecurityGroups))
	}
}

func TestToLoadBalancerData(t *testing.T) {
	lb := &elbv2types.LoadBalancer{
		LoadBalancerArn:  aws.String("arn:aws:elasticloadbalancing:us-east-1:123:loadbalancer/app/web/1"),
		LoadBalancerName: aws.String("web"),
		Type:             elbv2types.LoadBalancerTypeEnumApplication,
		Scheme:           elbv2types.LoadBalancerSchemeEnumInternetFacing,
		SecurityGroups:   []string{"sg-a", "sg-b"},
	}

	result := toLoadBalancerData(lb)

	if result.Type != "application" {
		t.Errorf("expected application, got %s", result.Type)
	}
	if result.Scheme != "internet-facing" {
		t.Errorf("expected internet-facing, got %s", result.Scheme)
	}
	if len(result.SecurityGroups) != 2 {
		t.Errorf("expected 2 security groups, got %d", len(result.SecurityGroups))
	}
}

func TestToStatelessRule(t *testing.T) {
	rule := nfwtypes.StatelessRule{
		Priority: aws.Int32(10),
		RuleDefinition: &nfwtypes.RuleDefinition{
			Actions: []string{"aws:drop"},
			MatchAttributes: &nfwtypes.MatchAttributes{
				Protocols:        []int32{6},
				Sources:          []nfwtypes.Address{{AddressDefinition: aws.String("0.0.0.0/0")}},
				Destinations:     []nfwtypes.Address{{AddressDefinition: aws.String("10.0.0.0/16")}},
				DestinationPorts: []nfwtypes.PortRange{{FromPort: 22, ToPort: 23}},
			},
		},
	}

	result := toStatelessRule(rule)

	if result.Priority != 10 {
		t.Errorf("expected priority 10, got %d", result.Priority)
	}
	if len(result.Actions) != 1 || result.Actions[0] != "aws:drop" {
		t.Errorf("expected aws:drop, got %v", result.Actions)
	}
	if len(result.Match.Protocols) != 1 || result.Match.Protocols[0] != 6 {
		t.Errorf("expected protocol 6, got %v", result.Match.Protocols)
	}
	if len(result.Match.DestPorts) != 1 || result.Match.DestPorts[0].From != 22 || result.Match.DestPorts[0].To != 23 {
		t.Errorf("expected ports 22-23, got %v", result.Match.DestPorts)
	}
}

func TestToStatelessRule_NoDefinition(t *testing.T) {
	result := toStatelessRule(nfwtypes.StatelessRule{Priority: aws.Int32(5)})

	if result.Priority != 5 || len(result.Actions) != 0 {
		t.Errorf("unexpected rule %+v", result)
	}
}

func TestToStatefulRule(t *testing.T) {
	rule := nfwtypes.StatefulRule{
		Action: nfwtypes.StatefulActionDrop,
		Header: &nfwtypes.Header{
			Protocol:        nfwtypes.StatefulRuleProtocolTcp,
			Source:          aws.String("ANY"),
			SourcePort:      aws.String("ANY"),
			Destination:     aws.String("10.0.0.0/16"),
			DestinationPort: aws.String("3389"),
			Direction:       nfwtypes.StatefulRuleDirectionForward,
		},
		RuleOptions: []nfwtypes.RuleOption{
			{Keyword: aws.String("msg"), Settings: []string{"\"block rdp\""}},
			{Keyword: aws.String("sid"), Settings: []string{"1001"}},
		},
	}

	result := toStatefulRule(rule)

	if result.Action != "DROP" {
		t.Errorf("expected DROP, got %s", result.Action)
	}
	if result.Protocol != "TCP" {
		t.Errorf("expected TCP, got %s", result.Protocol)
	}
	if result.DestPort != "3389" || result.Destination != "10.0.0.0/16" {
		t.Errorf("unexpected header %+v", result)
	}
	if result.SID != "1001" {
		t.Errorf("expected sid 1001, got %s", result.SID)
	}
}

func TestProtocolNumberToString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-1", "-1"},
		{"6", "tcp"},
		{"17", "udp"},
		{"1", "icmp"},
		{"58", "icmpv6"},
		{"tcp", "tcp"},
		{"50", "50"},
	}

	for _, tt := range tests {
		if got := protocolNumberToString(tt.input); got != tt.expected {
			t.Errorf("protocolNumberToString(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDerefHelpers(t *testing.T) {
	if derefString(nil) != "" {
		t.Error("expected empty string for nil")
	}
	if derefString(aws.String("x")) != "x" {
		t.Error("expected x")
	}
	if derefInt32(nil) != 0 {
		t.Error("expected 0 for nil")
	}
	if derefInt32(aws.Int32(7)) != 7 {
		t.Error("expected 7")
	}
}
