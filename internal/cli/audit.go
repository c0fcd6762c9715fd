package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eleven-am/fwaudit/internal/analyzer"
	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/report"
	"github.com/eleven-am/fwaudit/internal/source"
)

type reportFlags struct {
	outputDir string
	format    string
	parallel  bool
	disable   []string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "directory for generated reports (default from config)")
	cmd.Flags().StringVar(&f.format, "format", "", "report format: html, pdf, both or json (default from config)")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "run detectors concurrently")
	cmd.Flags().StringSliceVar(&f.disable, "disable", nil, "detectors to skip: "+kindList())
}

func kindList() string {
	names := make([]string, len(domain.Kinds))
	for i, k := range domain.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// options merges the config with the command flags.
func (f *reportFlags) options(extra ...domain.Kind) ([]analyzer.Option, error) {
	opts := cfg.AuditorOptions()
	if f.parallel {
		opts = append(opts, analyzer.WithParallel(true))
	}
	disabled := append([]domain.Kind(nil), extra...)
	for _, name := range f.disable {
		k, err := domain.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		disabled = append(disabled, k)
	}
	return append(opts, analyzer.WithDisabled(disabled...)), nil
}

func newAuditCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "audit <rules-file>",
		Short: "Audit a JSON, CSV or YAML rule file",
		Example: `  fwaudit audit rules.csv
  fwaudit audit rules.json --output-dir ./my_reports
  fwaudit audit rules.yaml -o ./reports -v --format both`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			rules, err := source.LoadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d rules from %s\n\n", len(rules), args[0])
			return auditAndReport(cmd, rules, opts, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func auditAndReport(cmd *cobra.Command, rules []domain.Rule, opts []analyzer.Option, flags *reportFlags) error {
	dir := flags.outputDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	formatName := flags.format
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if verbose {
		report.PrintRules(out, rules)
	}

	result := analyzer.New(opts...).Audit(rules)
	report.PrintSummary(out, result, verbose)

	paths, err := report.Write(dir, format, result)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	report.PrintFiles(out, paths)

	if result.TotalFindings() > 0 {
		return ErrFindings
	}
	return nil
}
