package fwaudit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eleven-am/fwaudit/internal/analyzer"
	internalaws "github.com/eleven-am/fwaudit/internal/aws"
	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/source"
)

type AccountContext = internalaws.AccountContext

// AccountResolver hands out AWS clients per account. *AccountContext
// implements it.
type AccountResolver = domain.AccountContext

type Rule = domain.Rule

type Report = domain.Report

type Finding = domain.Finding

type Kind = domain.Kind

type Direction = source.Direction

const (
	Ingress = source.Ingress
	Egress  = source.Egress
)

type Option = analyzer.Option

var (
	WithTables   = analyzer.WithTables
	WithParallel = analyzer.WithParallel
	WithDisabled = analyzer.WithDisabled
)

type resourceType int

const (
	resourceTypeNACL resourceType = iota
	resourceTypeSecurityGroup
	resourceTypeNetworkFirewall
	resourceTypeEC2
	resourceTypeNetworkInterface
	resourceTypeVPCEndpoint
	resourceTypeRDS
	resourceTypeLambda
	resourceTypeElastiCache
	resourceTypeCLB
	resourceTypeLoadBalancer
	resourceTypeVPCLinkV1
	resourceTypeVPCLinkV2
)

var resourceNames = map[resourceType]string{
	resourceTypeNACL:             "nacl",
	resourceTypeSecurityGroup:    "sg",
	resourceTypeNetworkFirewall:  "firewall",
	resourceTypeEC2:              "ec2",
	resourceTypeNetworkInterface: "eni",
	resourceTypeVPCEndpoint:      "vpce",
	resourceTypeRDS:              "rds",
	resourceTypeLambda:           "lambda",
	resourceTypeElastiCache:      "elasticache",
	resourceTypeCLB:              "clb",
	resourceTypeLoadBalancer:     "lb",
	resourceTypeVPCLinkV1:        "vpclink-v1",
	resourceTypeVPCLinkV2:        "vpclink",
}

// ResourceRef names an AWS resource whose filtering rules can be audited.
type ResourceRef struct {
	accountID    string
	resourceID   string
	resourceType resourceType
}

func (r ResourceRef) AccountID() string {
	return r.accountID
}

func (r ResourceRef) String() string {
	return resourceNames[r.resourceType] + " " + r.resourceID
}

// NACL creates a reference to a network ACL (e.g., "acl-0abc123").
func NACL(accountID, naclID string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: naclID, resourceType: resourceTypeNACL}
}

// SecurityGroup creates a reference to one or more security groups whose
// rules are audited together.
func SecurityGroup(accountID string, sgIDs ...string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: strings.Join(sgIDs, ","), resourceType: resourceTypeSecurityGroup}
}

// NetworkFirewall creates a reference to an AWS Network Firewall.
// Use the firewall ARN or name.
func NetworkFirewall(accountID, firewallID string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: firewallID, resourceType: resourceTypeNetworkFirewall}
}

// EC2 creates a reference to an EC2 instance's security groups.
func EC2(accountID, instanceID string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: instanceID, resourceType: resourceTypeEC2}
}

func NetworkInterface(accountID, eniID string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: eniID, resourceType: resourceTypeNetworkInterface}
}

func VPCEndpoint(accountID, vpceID string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: vpceID, resourceType: resourceTypeVPCEndpoint}
}

// RDS creates a reference to an RDS database instance.
// Use the DB instance identifier (e.g., "my-database").
func RDS(accountID, dbIdentifier string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: dbIdentifier, resourceType: resourceTypeRDS}
}

// Lambda creates a reference to a VPC-attached Lambda function.
// Use the function name or ARN.
func Lambda(accountID, functionName string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: functionName, resourceType: resourceTypeLambda}
}

func ElastiCache(accountID, clusterID string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: clusterID, resourceType: resourceTypeElastiCache}
}

// CLB creates a reference to a Classic Load Balancer.
// Use the load balancer name.
func CLB(accountID, clbName string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: clbName, resourceType: resourceTypeCLB}
}

// LoadBalancer creates a reference to an application or network load balancer.
// Use the full ARN.
func LoadBalancer(accountID, lbARN string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: lbARN, resourceType: resourceTypeLoadBalancer}
}

// VPCLinkV1 creates a reference to a REST API VPC link. Its rules are those
// of the security groups on the target network load balancers.
func VPCLinkV1(accountID, vpcLinkID string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: vpcLinkID, resourceType: resourceTypeVPCLinkV1}
}

// VPCLinkV2 creates a reference to an HTTP API VPC link.
func VPCLinkV2(accountID, vpcLinkID string) ResourceRef {
	return ResourceRef{accountID: accountID, resourceID: vpcLinkID, resourceType: resourceTypeVPCLinkV2}
}

// ResourceKinds lists the kind names accepted by ParseResourceRef.
func ResourceKinds() []string {
	kinds := make([]string, 0, len(resourceNames))
	for _, name := range resourceNames {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}

// ParseResourceRef builds a reference from a kind name such as "nacl" or "sg".
// For "sg" the id may be a comma separated list.
func ParseResourceRef(kind, accountID, id string) (ResourceRef, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	id = strings.TrimSpace(id)
	if id == "" {
		return ResourceRef{}, fmt.Errorf("resource id is required")
	}
	for t, name := range resourceNames {
		if name == kind {
			return ResourceRef{accountID: accountID, resourceID: id, resourceType: t}, nil
		}
	}
	return ResourceRef{}, fmt.Errorf("unknown resource kind %q (want one of %s)", kind, strings.Join(ResourceKinds(), ", "))
}
