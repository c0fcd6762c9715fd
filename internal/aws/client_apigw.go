package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"

	"github.com/eleven-am/fwaudit/internal/domain"
)

// GetVPCLinkV1 returns a REST API VPC link. V1 links carry no security
// groups of their own; traffic is filtered by the target network load
// balancers, so their groups are collected instead.
func (c *Client) GetVPCLinkV1(ctx context.Context, vpcLinkID string) (*domain.VPCLinkData, error) {
	return cached(c.cache, c.cacheKey("vpclink-v1", vpcLinkID), func() (*domain.VPCLinkData, error) {
		out, err := c.apigwClient.GetVpcLink(ctx, &apigateway.GetVpcLinkInput{
			VpcLinkId: aws.String(vpcLinkID),
		})
		if err != nil {
			return nil, fmt.Errorf("get vpc link v1 %s: %w", vpcLinkID, err)
		}

		data := &domain.VPCLinkData{
			ID:         derefString(out.Id),
			Name:       derefString(out.Name),
			Version:    "V1",
			TargetARNs: out.TargetArns,
			Status:     string(out.Status),
		}

		var groups []string
		for _, arn := range out.TargetArns {
			lb, err := c.GetLoadBalancer(ctx, arn)
			if err != nil {
				return nil, fmt.Errorf("resolve vpc link %s target: %w", vpcLinkID, err)
			}
			groups = append(groups, lb.SecurityGroups...)
		}
		data.SecurityGroups = uniqueStrings(groups)
		return data, nil
	})
}

func (c *Client) GetVPCLinkV2(ctx context.Context, vpcLinkID string) (*domain.VPCLinkData, error) {
	return cached(c.cache, c.cacheKey("vpclink-v2", vpcLinkID), func() (*domain.VPCLinkData, error) {
		out, err := c.apigwv2Client.GetVpcLink(ctx, &apigatewayv2.GetVpcLinkInput{
			VpcLinkId: aws.String(vpcLinkID),
		})
		if err != nil {
			return nil, fmt.Errorf("get vpc link v2 %s: %w", vpcLinkID, err)
		}
		return &domain.VPCLinkData{
			ID:             derefString(out.VpcLinkId),
			Name:           derefString(out.Name),
			Version:        "V2",
			SecurityGroups: out.SecurityGroupIds,
			Status:         string(out.VpcLinkStatus),
		}, nil
	})
}
