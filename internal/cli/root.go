package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eleven-am/fwaudit/internal/config"
)

// ErrFindings is returned by the audit commands when the report is not
// clean. It maps to exit code 1 without printing an error.
var ErrFindings = errors.New("findings detected")

var (
	configPath string
	logLevel   string
	verbose    bool

	cfg *config.Config
)

func newRootCmd() *cobra.Command {
	configPath, logLevel, verbose, cfg = "", "", false, nil

	root := &cobra.Command{
		Use:   "fwaudit",
		Short: "Audit firewall rule sets for anomalies",
		Long: `fwaudit inspects an ordered firewall rule list and reports shadowed,
redundant, overly permissive, unused, unsafe-service and generalizing rules.

Rules can be read from JSON, CSV or YAML files, or collected from AWS
network ACLs, security groups and Network Firewall policies.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.fwaudit/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "list loaded rules and finding details")

	root.AddCommand(newAuditCmd())
	root.AddCommand(newAWSCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newConfigCmd())
	return root
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = loaded

	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level, _ := log.ParseLevel(cfg.LogLevel)
	if verbose && level < log.DebugLevel {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	return nil
}

// Execute runs the command line and returns the process exit code: 0 for a
// clean audit, 1 for findings or any error.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrFindings):
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}
