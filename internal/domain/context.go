package domain

import (
	"context"
	"time"
)

type AWSCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

type AccountContext interface {
	AssumeRole(accountID string) (AWSCredentials, error)
	GetClient(accountID string) (AWSClient, error)
}

// AWSClient fetches the filtering resources whose rules can be audited.
type AWSClient interface {
	GetSecurityGroup(ctx context.Context, sgID string) (*SecurityGroupData, error)
	GetSecurityGroups(ctx context.Context, sgIDs []string) ([]*SecurityGroupData, error)
	GetNACL(ctx context.Context, naclID string) (*NACLData, error)
	GetManagedPrefixList(ctx context.Context, prefixListID string) (*ManagedPrefixListData, error)
	GetNetworkFirewall(ctx context.Context, firewallID string) (*NetworkFirewallData, error)

	GetEC2Instance(ctx context.Context, instanceID string) (*EC2InstanceData, error)
	GetNetworkInterface(ctx context.Context, eniID string) (*ENIData, error)
	GetVPCEndpoint(ctx context.Context, endpointID string) (*VPCEndpointData, error)
	GetRDSInstance(ctx context.Context, dbInstanceID string) (*RDSInstanceData, error)
	GetLambdaFunction(ctx context.Context, functionName string) (*LambdaFunctionData, error)
	GetElastiCacheCluster(ctx context.Context, clusterID string) (*ElastiCacheClusterData, error)

	GetLoadBalancer(ctx context.Context, lbARN string) (*LoadBalancerData, error)
	GetCLB(ctx context.Context, clbName string) (*CLBData, error)
	GetVPCLinkV1(ctx context.Context, vpcLinkID string) (*VPCLinkData, error)
	GetVPCLinkV2(ctx context.Context, vpcLinkID string) (*VPCLinkData, error)
}
