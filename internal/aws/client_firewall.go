package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/networkfirewall"
	nfwtypes "github.com/aws/aws-sdk-go-v2/service/networkfirewall/types"
	log "github.com/sirupsen/logrus"

	"github.com/eleven-am/fwaudit/internal/domain"
)

// GetNetworkFirewall accepts either a firewall ARN or name and returns the
// stateless and stateful rule groups referenced by its policy.
func (c *Client) GetNetworkFirewall(ctx context.Context, firewallID string) (*domain.NetworkFirewallData, error) {
	return cached(c.cache, c.cacheKey("nfw", firewallID), func() (*domain.NetworkFirewallData, error) {
		return c.describeNetworkFirewall(ctx, firewallID)
	})
}

func (c *Client) describeNetworkFirewall(ctx context.Context, firewallID string) (*domain.NetworkFirewallData, error) {
	out, err := c.networkFirewallClient.DescribeFirewall(ctx, &networkfirewall.DescribeFirewallInput{
		FirewallArn: aws.String(firewallID),
	})
	if err != nil {
		out, err = c.networkFirewallClient.DescribeFirewall(ctx, &networkfirewall.DescribeFirewallInput{
			FirewallName: aws.String(firewallID),
		})
		if err != nil {
			return nil, fmt.Errorf("describe network firewall %s: %w", firewallID, err)
		}
	}
	if out.Firewall == nil {
		return nil, fmt.Errorf("network firewall %s not found", firewallID)
	}

	fw := out.Firewall
	data := &domain.NetworkFirewallData{
		ID:        derefString(fw.FirewallArn),
		Name:      derefString(fw.FirewallName),
		PolicyARN: derefString(fw.FirewallPolicyArn),
		VPCID:     derefString(fw.VpcId),
	}
	if data.PolicyARN == "" {
		return data, nil
	}

	policyOut, err := c.networkFirewallClient.DescribeFirewallPolicy(ctx, &networkfirewall.DescribeFirewallPolicyInput{
		FirewallPolicyArn: aws.String(data.PolicyARN),
	})
	if err != nil {
		return nil, fmt.Errorf("describe firewall policy %s: %w", data.PolicyARN, err)
	}
	if policyOut.FirewallPolicy == nil {
		return data, nil
	}
	policy := policyOut.FirewallPolicy

	for _, ref := range policy.StatelessRuleGroupReferences {
		group, err := c.getStatelessRuleGroup(ctx, derefString(ref.ResourceArn))
		if err != nil {
			return nil, err
		}
		group.Priority = int(derefInt32(ref.Priority))
		data.StatelessRuleGroups = append(data.StatelessRuleGroups, group)
	}

	for _, ref := range policy.StatefulRuleGroupReferences {
		group, err := c.getStatefulRuleGroup(ctx, derefString(ref.ResourceArn))
		if err != nil {
			return nil, err
		}
		group.Priority = int(derefInt32(ref.Priority))
		data.StatefulRuleGroups = append(data.StatefulRuleGroups, group)
	}

	return data, nil
}

func (c *Client) getStatelessRuleGroup(ctx context.Context, arn string) (domain.StatelessRuleGroup, error) {
	out, err := c.networkFirewallClient.DescribeRuleGroup(ctx, &networkfirewall.DescribeRuleGroupInput{
		RuleGroupArn: aws.String(arn),
		Type:         nfwtypes.RuleGroupTypeStateless,
	})
	if err != nil {
		return domain.StatelessRuleGroup{}, fmt.Errorf("describe stateless rule group %s: %w", arn, err)
	}

	group := domain.StatelessRuleGroup{ARN: arn}
	if out.RuleGroup == nil || out.RuleGroup.RulesSource == nil || out.RuleGroup.RulesSource.StatelessRulesAndCustomActions == nil {
		return group, nil
	}
	for _, rule := range out.RuleGroup.RulesSource.StatelessRulesAndCustomActions.StatelessRules {
		if rule.RuleDefinition == nil {
			continue
		}
		group.Rules = append(group.Rules, toStatelessRule(rule))
	}
	return group, nil
}

func (c *Client) getStatefulRuleGroup(ctx context.Context, arn string) (domain.StatefulRuleGroup, error) {
	out, err := c.networkFirewallClient.DescribeRuleGroup(ctx, &networkfirewall.DescribeRuleGroupInput{
		RuleGroupArn: aws.String(arn),
		Type:         nfwtypes.RuleGroupTypeStateful,
	})
	if err != nil {
		return domain.StatefulRuleGroup{}, fmt.Errorf("describe stateful rule group %s: %w", arn, err)
	}

	group := domain.StatefulRuleGroup{ARN: arn}
	if out.RuleGroup == nil || out.RuleGroup.RulesSource == nil {
		return group, nil
	}
	source := out.RuleGroup.RulesSource
	if source.RulesString != nil || source.RulesSourceList != nil {
		log.Warnf("Rule group %s uses Suricata strings or domain lists; only 5-tuple rules are audited", arn)
	}
	for _, rule := range source.StatefulRules {
		if rule.Header == nil {
			continue
		}
		group.Rules = append(group.Rules, toStatefulRule(rule))
	}
	return group, nil
}
