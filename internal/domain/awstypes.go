package domain

type SecurityGroupData struct {
	ID            string
	Name          string
	VPCID         string
	InboundRules  []SecurityGroupRule
	OutboundRules []SecurityGroupRule
}

type SecurityGroupRule struct {
	Protocol                 string
	FromPort                 int
	ToPort                   int
	CIDRBlocks               []string
	IPv6CIDRBlocks           []string
	ReferencedSecurityGroups []string
	PrefixListIDs            []string
}

type NACLData struct {
	ID            string
	VPCID         string
	InboundRules  []NACLRule
	OutboundRules []NACLRule
}

type NACLRule struct {
	RuleNumber    int
	Protocol      string
	FromPort      int
	ToPort        int
	CIDRBlock     string
	IPv6CIDRBlock string
	Action        string
}

type EC2InstanceData struct {
	ID             string
	PrivateIP      string
	SecurityGroups []string
	SubnetID       string
}

type RDSInstanceData struct {
	ID             string
	Endpoint       string
	Port           int
	SecurityGroups []string
}

type LambdaFunctionData struct {
	Name           string
	VPCID          string
	SecurityGroups []string
}

type VPCEndpointData struct {
	ID             string
	VPCID          string
	ServiceName    string
	Type           string
	SecurityGroups []string
}

type ENIData struct {
	ID             string
	PrivateIP      string
	SubnetID       string
	SecurityGroups []string
}

type ManagedPrefixListData struct {
	ID      string
	Name    string
	Entries []PrefixListEntry
}

type PrefixListEntry struct {
	CIDR        string
	Description string
}

// LoadBalancerData covers application and network load balancers.
type LoadBalancerData struct {
	ARN            string
	Name           string
	Type           string
	Scheme         string
	VPCID          string
	SecurityGroups []string
}

type CLBData struct {
	Name           string
	DNSName        string
	Scheme         string
	VPCID          string
	SecurityGroups []string
}

type VPCLinkData struct {
	ID             string
	Name           string
	Version        string
	TargetARNs     []string
	SecurityGroups []string
	Status         string
}

type ElastiCacheClusterData struct {
	ID             string
	Engine         string
	Port           int
	SecurityGroups []string
}
