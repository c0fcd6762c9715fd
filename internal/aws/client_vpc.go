package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"golang.org/x/sync/errgroup"

	"github.com/eleven-am/fwaudit/internal/domain"
)

func (c *Client) GetSecurityGroup(ctx context.Context, sgID string) (*domain.SecurityGroupData, error) {
	return cached(c.cache, c.cacheKey("sg", sgID), func() (*domain.SecurityGroupData, error) {
		out, err := c.ec2Client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
			GroupIds: []string{sgID},
		})
		if err != nil {
			return nil, fmt.Errorf("describe security group %s: %w", sgID, err)
		}
		if len(out.SecurityGroups) == 0 {
			return nil, fmt.Errorf("security group %s not found", sgID)
		}
		return toSecurityGroupData(&out.SecurityGroups[0]), nil
	})
}

// GetSecurityGroups fetches the groups concurrently and returns them in the
// order of sgIDs. Duplicate IDs are fetched once.
func (c *Client) GetSecurityGroups(ctx context.Context, sgIDs []string) ([]*domain.SecurityGroupData, error) {
	ids := uniqueStrings(sgIDs)
	results := make([]*domain.SecurityGroupData, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDescribes)
	for i, id := range ids {
		g.Go(func() error {
			sg, err := c.GetSecurityGroup(gCtx, id)
			if err != nil {
				return err
			}
			results[i] = sg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) GetNACL(ctx context.Context, naclID string) (*domain.NACLData, error) {
	return cached(c.cache, c.cacheKey("nacl", naclID), func() (*domain.NACLData, error) {
		out, err := c.ec2Client.DescribeNetworkAcls(ctx, &ec2.DescribeNetworkAclsInput{
			NetworkAclIds: []string{naclID},
		})
		if err != nil {
			return nil, fmt.Errorf("describe network acl %s: %w", naclID, err)
		}
		if len(out.NetworkAcls) == 0 {
			return nil, fmt.Errorf("network acl %s not found", naclID)
		}
		return toNACLData(&out.NetworkAcls[0]), nil
	})
}

func (c *Client) GetVPCEndpoint(ctx context.Context, endpointID string) (*domain.VPCEndpointData, error) {
	return cached(c.cache, c.cacheKey("vpce", endpointID), func() (*domain.VPCEndpointData, error) {
		out, err := c.ec2Client.DescribeVpcEndpoints(ctx, &ec2.DescribeVpcEndpointsInput{
			VpcEndpointIds: []string{endpointID},
		})
		if err != nil {
			return nil, fmt.Errorf("describe vpc endpoint %s: %w", endpointID, err)
		}
		if len(out.VpcEndpoints) == 0 {
			return nil, fmt.Errorf("vpc endpoint %s not found", endpointID)
		}
		return toVPCEndpointData(&out.VpcEndpoints[0]), nil
	})
}

func (c *Client) GetNetworkInterface(ctx context.Context, eniID string) (*domain.ENIData, error) {
	out, err := c.ec2Client.DescribeNetworkInterfaces(ctx, &ec2.DescribeNetworkInterfacesInput{
		NetworkInterfaceIds: []string{eniID},
	})
	if err != nil {
		return nil, fmt.Errorf("describe network interface %s: %w", eniID, err)
	}
	if len(out.NetworkInterfaces) == 0 {
		return nil, fmt.Errorf("network interface %s not found", eniID)
	}
	return toENIData(&out.NetworkInterfaces[0]), nil
}

func (c *Client) GetManagedPrefixList(ctx context.Context, prefixListID string) (*domain.ManagedPrefixListData, error) {
	return cached(c.cache, c.cacheKey("pl", prefixListID), func() (*domain.ManagedPrefixListData, error) {
		out, err := c.ec2Client.DescribeManagedPrefixLists(ctx, &ec2.DescribeManagedPrefixListsInput{
			PrefixListIds: []string{prefixListID},
		})
		if err != nil {
			return nil, fmt.Errorf("describe managed prefix list %s: %w", prefixListID, err)
		}
		if len(out.PrefixLists) == 0 {
			return nil, fmt.Errorf("managed prefix list %s not found", prefixListID)
		}

		paginator := ec2.NewGetManagedPrefixListEntriesPaginator(c.ec2Client, &ec2.GetManagedPrefixListEntriesInput{
			PrefixListId: aws.String(prefixListID),
		})
		entries, err := collectPages(ctx, pager[*ec2.GetManagedPrefixListEntriesOutput]{
			hasMore: paginator.HasMorePages,
			next: func(ctx context.Context) (*ec2.GetManagedPrefixListEntriesOutput, error) {
				return paginator.NextPage(ctx)
			},
		}, func(out *ec2.GetManagedPrefixListEntriesOutput) []ec2types.PrefixListEntry {
			return out.Entries
		})
		if err != nil {
			return nil, fmt.Errorf("get managed prefix list entries %s: %w", prefixListID, err)
		}

		return toManagedPrefixListData(&out.PrefixLists[0], entries), nil
	})
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
