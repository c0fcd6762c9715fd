package cli

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/source"
	"github.com/eleven-am/fwaudit/pkg/fwaudit"
)

type awsFlags struct {
	account     string
	region      string
	profile     string
	direction   string
	rolePattern string
	withUnused  bool
}

// newAccountResolver builds the AWS account access used by the aws command.
// Tests replace it with a mock.
var newAccountResolver = func(ctx context.Context, region, profile, rolePattern string) (fwaudit.AccountResolver, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return fwaudit.NewAccountContext(awsCfg, rolePattern), nil
}

func newAWSCmd() *cobra.Command {
	var flags reportFlags
	var af awsFlags
	cmd := &cobra.Command{
		Use:   "aws <kind> <id>",
		Short: "Collect and audit the rules of an AWS resource",
		Long: fmt.Sprintf(`Collect the filtering rules of an AWS resource and audit them.

Kinds: %s.

Network ACLs are audited per direction in rule-number order. Security
groups and the resources that carry them are audited as allow-only rule
lists. AWS keeps no per-rule hit counters, so the unused detector is off
unless --with-unused is given.`, strings.Join(fwaudit.ResourceKinds(), ", ")),
		Example: `  fwaudit aws nacl acl-0abc123 --direction egress
  fwaudit aws sg sg-0abc123,sg-0def456 --region eu-west-1
  fwaudit aws rds orders-db --account 123456789012`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := fwaudit.ParseResourceRef(args[0], af.account, args[1])
			if err != nil {
				return err
			}
			dir, err := source.ParseDirection(af.direction)
			if err != nil {
				return err
			}

			var extra []domain.Kind
			if !af.withUnused {
				extra = append(extra, domain.KindUnused)
			}
			opts, err := flags.options(extra...)
			if err != nil {
				return err
			}

			region := af.region
			if region == "" {
				region = cfg.AWS.Region
			}
			profile := af.profile
			if profile == "" {
				profile = cfg.AWS.Profile
			}
			pattern := af.rolePattern
			if pattern == "" {
				pattern = cfg.AWS.RoleARNPattern
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			accounts, err := newAccountResolver(ctx, region, profile, pattern)
			if err != nil {
				return err
			}

			log.Debugf("Collecting %s rules for %s", dir, ref)
			rules, err := fwaudit.CollectRules(ctx, ref, dir, accounts)
			if err != nil {
				return fmt.Errorf("collect %s: %w", ref, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Collected %d %s rules from %s\n\n", len(rules), dir, ref)
			return auditAndReport(cmd, rules, opts, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&af.account, "account", "", "account ID to assume into (default: current credentials)")
	cmd.Flags().StringVar(&af.region, "region", "", "AWS region (default from config or environment)")
	cmd.Flags().StringVar(&af.profile, "profile", "", "shared config profile")
	cmd.Flags().StringVar(&af.direction, "direction", "ingress", "rule direction: ingress or egress")
	cmd.Flags().StringVar(&af.rolePattern, "role-pattern", "", "role ARN pattern for cross-account access, %s is the account ID")
	cmd.Flags().BoolVar(&af.withUnused, "with-unused", false, "keep the unused detector enabled")
	return cmd
}
