package fwaudit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	log "github.com/sirupsen/logrus"

	"github.com/eleven-am/fwaudit/internal/analyzer"
	internalaws "github.com/eleven-am/fwaudit/internal/aws"
	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/source"
)

var ErrNoSecurityGroups = errors.New("resource has no security groups")

// NewAccountContext creates an account context for cross-account AWS access.
// The roleARNPattern should contain %s as a placeholder for the account ID;
// empty selects arn:aws:iam::%s:role/FirewallAuditRole.
func NewAccountContext(cfg aws.Config, roleARNPattern string) *AccountContext {
	return internalaws.NewAccountContext(cfg, roleARNPattern)
}

// LoadRules reads a JSON, CSV or YAML rule file and returns the normalized
// rules sorted by priority.
func LoadRules(path string) ([]Rule, error) {
	return source.LoadFile(path)
}

// Audit runs every detector over rules, which must already be sorted by
// priority.
func Audit(rules []Rule, opts ...Option) *Report {
	return analyzer.Audit(rules, opts...)
}

// AuditResource collects the rules of an AWS resource and audits them.
func AuditResource(ctx context.Context, ref ResourceRef, dir Direction, accounts AccountResolver, opts ...Option) (*Report, error) {
	rules, err := CollectRules(ctx, ref, dir, accounts)
	if err != nil {
		return nil, err
	}
	return Audit(rules, opts...), nil
}

// CollectRules fetches the resource and converts its filtering rules for
// one direction into audit rules. Network Firewall policies have no
// direction and ignore dir.
func CollectRules(ctx context.Context, ref ResourceRef, dir Direction, accounts AccountResolver) ([]Rule, error) {
	client, err := accounts.GetClient(ref.accountID)
	if err != nil {
		return nil, fmt.Errorf("client for account %q: %w", ref.accountID, err)
	}

	switch ref.resourceType {
	case resourceTypeNACL:
		data, err := client.GetNACL(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return source.FromNACL(data, dir), nil

	case resourceTypeNetworkFirewall:
		data, err := client.GetNetworkFirewall(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return source.FromNetworkFirewall(data), nil
	}

	sgIDs, err := securityGroupIDs(ctx, client, ref)
	if err != nil {
		return nil, err
	}
	if len(sgIDs) == 0 {
		return nil, fmt.Errorf("%s: %w", ref, ErrNoSecurityGroups)
	}
	return collectSecurityGroupRules(ctx, client, sgIDs, dir)
}

func securityGroupIDs(ctx context.Context, client domain.AWSClient, ref ResourceRef) ([]string, error) {
	switch ref.resourceType {
	case resourceTypeSecurityGroup:
		var ids []string
		for _, id := range strings.Split(ref.resourceID, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		return ids, nil

	case resourceTypeEC2:
		data, err := client.GetEC2Instance(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeNetworkInterface:
		data, err := client.GetNetworkInterface(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeVPCEndpoint:
		data, err := client.GetVPCEndpoint(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeRDS:
		data, err := client.GetRDSInstance(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeLambda:
		data, err := client.GetLambdaFunction(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeElastiCache:
		data, err := client.GetElastiCacheCluster(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeCLB:
		data, err := client.GetCLB(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeLoadBalancer:
		data, err := client.GetLoadBalancer(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeVPCLinkV1:
		data, err := client.GetVPCLinkV1(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	case resourceTypeVPCLinkV2:
		data, err := client.GetVPCLinkV2(ctx, ref.resourceID)
		if err != nil {
			return nil, err
		}
		return data.SecurityGroups, nil

	default:
		return nil, fmt.Errorf("unsupported resource type")
	}
}

// collectSecurityGroupRules expands referenced prefix lists where they can be
// fetched; lists that fail to load stay as opaque tokens.
func collectSecurityGroupRules(ctx context.Context, client domain.AWSClient, sgIDs []string, dir Direction) ([]Rule, error) {
	groups, err := client.GetSecurityGroups(ctx, sgIDs)
	if err != nil {
		return nil, err
	}

	prefixLists := make(map[string][]string)
	for _, sg := range groups {
		if sg == nil {
			continue
		}
		perms := sg.InboundRules
		if dir == source.Egress {
			perms = sg.OutboundRules
		}
		for _, perm := range perms {
			for _, id := range perm.PrefixListIDs {
				if _, done := prefixLists[id]; done {
					continue
				}
				pl, err := client.GetManagedPrefixList(ctx, id)
				if err != nil {
					log.Warnf("Prefix list %s not expanded: %v", id, err)
					prefixLists[id] = nil
					continue
				}
				cidrs := make([]string, 0, len(pl.Entries))
				for _, e := range pl.Entries {
					cidrs = append(cidrs, e.CIDR)
				}
				prefixLists[id] = cidrs
			}
		}
	}

	return source.FromSecurityGroups(groups, dir, prefixLists), nil
}
