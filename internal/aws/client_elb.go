package aws

import (
	"context"
	"fmt"

	elb "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"

	"github.com/eleven-am/fwaudit/internal/domain"
)

// GetLoadBalancer describes an application or network load balancer. A
// network load balancer created without security groups returns none.
func (c *Client) GetLoadBalancer(ctx context.Context, lbARN string) (*domain.LoadBalancerData, error) {
	return cached(c.cache, c.cacheKey("elbv2", lbARN), func() (*domain.LoadBalancerData, error) {
		out, err := c.elbv2Client.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{
			LoadBalancerArns: []string{lbARN},
		})
		if err != nil {
			return nil, fmt.Errorf("describe load balancer %s: %w", lbARN, err)
		}
		if len(out.LoadBalancers) == 0 {
			return nil, fmt.Errorf("load balancer %s not found", lbARN)
		}
		return toLoadBalancerData(&out.LoadBalancers[0]), nil
	})
}

func (c *Client) GetCLB(ctx context.Context, clbName string) (*domain.CLBData, error) {
	return cached(c.cache, c.cacheKey("clb", clbName), func() (*domain.CLBData, error) {
		out, err := c.elbClient.DescribeLoadBalancers(ctx, &elb.DescribeLoadBalancersInput{
			LoadBalancerNames: []string{clbName},
		})
		if err != nil {
			return nil, fmt.Errorf("describe classic load balancer %s: %w", clbName, err)
		}
		if len(out.LoadBalancerDescriptions) == 0 {
			return nil, fmt.Errorf("classic load balancer %s not found", clbName)
		}
		return toCLBData(&out.LoadBalancerDescriptions[0]), nil
	})
}
