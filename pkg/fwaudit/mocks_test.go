package fwaudit

import (
	"context"
	"fmt"

	"github.com/eleven-am/fwaudit/internal/domain"
)

type mockAWSClient struct {
	securityGroups      map[string]*domain.SecurityGroupData
	nacls               map[string]*domain.NACLData
	prefixLists         map[string]*domain.ManagedPrefixListData
	firewalls           map[string]*domain.NetworkFirewallData
	ec2Instances        map[string]*domain.EC2InstanceData
	enis                map[string]*domain.ENIData
	vpcEndpoints        map[string]*domain.VPCEndpointData
	rdsInstances        map[string]*domain.RDSInstanceData
	lambdaFunctions     map[string]*domain.LambdaFunctionData
	elasticacheClusters map[string]*domain.ElastiCacheClusterData
	loadBalancers       map[string]*domain.LoadBalancerData
	clbs                map[string]*domain.CLBData
	vpcLinks            map[string]*domain.VPCLinkData
	prefixListCalls     int
}

func newMockAWSClient() *mockAWSClient {
	return &mockAWSClient{
		securityGroups:      make(map[string]*domain.SecurityGroupData),
		nacls:               make(map[string]*domain.NACLData),
		prefixLists:         make(map[string]*domain.ManagedPrefixListData),
		firewalls:           make(map[string]*domain.NetworkFirewallData),
		ec2Instances:        make(map[string]*domain.EC2InstanceData),
		enis:                make(map[string]*domain.ENIData),
		vpcEndpoints:        make(map[string]*domain.VPCEndpointData),
		rdsInstances:        make(map[string]*domain.RDSInstanceData),
		lambdaFunctions:     make(map[string]*domain.LambdaFunctionData),
		elasticacheClusters: make(map[string]*domain.ElastiCacheClusterData),
		loadBalancers:       make(map[string]*domain.LoadBalancerData),
		clbs:                make(map[string]*domain.CLBData),
		vpcLinks:            make(map[string]*domain.VPCLinkData),
	}
}

func lookup[T any](m map[string]*T, kind, id string) (*T, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%s %s not found", kind, id)
}

func (m *mockAWSClient) GetSecurityGroup(ctx context.Context, sgID string) (*domain.SecurityGroupData, error) {
	return lookup(m.securityGroups, "security group", sgID)
}

func (m *mockAWSClient) GetSecurityGroups(ctx context.Context, sgIDs []string) ([]*domain.SecurityGroupData, error) {
	var out []*domain.SecurityGroupData
	for _, id := range sgIDs {
		sg, err := m.GetSecurityGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, nil
}

func (m *mockAWSClient) GetNACL(ctx context.Context, naclID string) (*domain.NACLData, error) {
	return lookup(m.nacls, "network acl", naclID)
}

func (m *mockAWSClient) GetManagedPrefixList(ctx context.Context, prefixListID string) (*domain.ManagedPrefixListData, error) {
	m.prefixListCalls++
	return lookup(m.prefixLists, "prefix list", prefixListID)
}

func (m *mockAWSClient) GetNetworkFirewall(ctx context.Context, firewallID string) (*domain.NetworkFirewallData, error) {
	return lookup(m.firewalls, "network firewall", firewallID)
}

func (m *mockAWSClient) GetEC2Instance(ctx context.Context, instanceID string) (*domain.EC2InstanceData, error) {
	return lookup(m.ec2Instances, "instance", instanceID)
}

func (m *mockAWSClient) GetNetworkInterface(ctx context.Context, eniID string) (*domain.ENIData, error) {
	return lookup(m.enis, "network interface", eniID)
}

func (m *mockAWSClient) GetVPCEndpoint(ctx context.Context, endpointID string) (*domain.VPCEndpointData, error) {
	return lookup(m.vpcEndpoints, "vpc endpoint", endpointID)
}

func (m *mockAWSClient) GetRDSInstance(ctx context.Context, dbInstanceID string) (*domain.RDSInstanceData, error) {
	return lookup(m.rdsInstances, "db instance", dbInstanceID)
}

func (m *mockAWSClient) GetLambdaFunction(ctx context.Context, functionName string) (*domain.LambdaFunctionData, error) {
	return lookup(m.lambdaFunctions, "lambda function", functionName)
}

func (m *mockAWSClient) GetElastiCacheCluster(ctx context.Context, clusterID string) (*domain.ElastiCacheClusterData, error) {
	return lookup(m.elasticacheClusters, "cache cluster", clusterID)
}

func (m *mockAWSClient) GetLoadBalancer(ctx context.Context, lbARN string) (*domain.LoadBalancerData, error) {
	return lookup(m.loadBalancers, "load balancer", lbARN)
}

func (m *mockAWSClient) GetCLB(ctx context.Context, clbName string) (*domain.CLBData, error) {
	return lookup(m.clbs, "classic load balancer", clbName)
}

func (m *mockAWSClient) GetVPCLinkV1(ctx context.Context, vpcLinkID string) (*domain.VPCLinkData, error) {
	return lookup(m.vpcLinks, "vpc link", vpcLinkID)
}

func (m *mockAWSClient) GetVPCLinkV2(ctx context.Context, vpcLinkID string) (*domain.VPCLinkData, error) {
	return lookup(m.vpcLinks, "vpc link", vpcLinkID)
}

type mockAccountContext struct {
	clients map[string]domain.AWSClient
}

func (m *mockAccountContext) AssumeRole(accountID string) (domain.AWSCredentials, error) {
	return domain.AWSCredentials{}, nil
}

func (m *mockAccountContext) GetClient(accountID string) (domain.AWSClient, error) {
	if c, ok := m.clients[accountID]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no client for account %s", accountID)
}

func singleAccount(client *mockAWSClient) *mockAccountContext {
	return &mockAccountContext{clients: map[string]domain.AWSClient{"": client}}
}
