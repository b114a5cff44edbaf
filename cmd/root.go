package cmd

import (
	"errors"
	"fmt"
	"os"

	"mlist-manager/core/config"
	"mlist-manager/core/logger"
	"mlist-manager/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options holds the flags shared by every subcommand.
type options struct {
	configDir string

	full          string
	current       string
	removed       string
	input         string
	output        string
	force         bool
	removedPolicy string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "mlist-manager",
		Short: "Mailing list roster manager",
		Long: `mlist-manager keeps three address files in step with the exports of a mailing list:
the full list of every address ever seen, the current export, and the addresses removed
from the list. It can also pull addresses out of free text and stage the unknown ones
for import.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unknown operation %q", reconcile.ErrUsage, args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := reconcile.ParseOperation("")
			return err
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", reconcile.ErrUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configDir, "config-dir", ".", "Directory holding .env and config.yaml")
	pf.StringVarP(&opts.full, "full", "f", "", "Full roster file (default full.csv)")
	pf.StringVarP(&opts.current, "current", "c", "", "Current export file (default current.csv)")
	pf.StringVarP(&opts.removed, "removed", "r", "", "Removed addresses file (default removed.csv)")
	pf.StringVarP(&opts.input, "input", "i", "", "Text file to extract addresses from")
	pf.StringVarP(&opts.output, "output", "o", "", "File that receives extracted or imported addresses")
	pf.BoolVar(&opts.force, "force", false, "Overwrite the output file if it exists")
	pf.StringVar(&opts.removedPolicy, "removed-policy", "", "How removed addresses are kept: accumulate or replace")

	for _, op := range reconcile.Operations {
		root.AddCommand(newOperationCmd(op, opts))
	}
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newHistoryCmd(opts))

	return root
}

// loadConfig reads the configuration and applies the flags the user set.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	overrides := []struct {
		name   string
		target *string
		value  string
	}{
		{"full", &cfg.Roster.Full, o.full},
		{"current", &cfg.Roster.Current, o.current},
		{"removed", &cfg.Roster.Removed, o.removed},
		{"input", &cfg.Roster.Input, o.input},
		{"output", &cfg.Roster.Output, o.output},
		{"removed-policy", &cfg.Roster.RemovedPolicy, o.removedPolicy},
	}
	for _, ov := range overrides {
		if flags.Changed(ov.name) {
			*ov.target = ov.value
		}
	}
	if flags.Changed("force") {
		cfg.Roster.Force = o.force
	}

	return cfg, nil
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, reconcile.ErrUsage):
		return 2
	default:
		return 1
	}
}

// Execute runs the command tree and exits with a non-zero status on failure.
func Execute() {
	root := newRootCmd()
	err := root.Execute()
	if err == nil {
		return
	}

	// Console logger with ISO8601 timestamps, independent of the loaded configuration.
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr == nil {
		l.Error("command failed", zap.Error(err))
		if errors.Is(err, reconcile.ErrUsage) {
			l.Info("Run with --help to see the available operations")
		}
		_ = l.Sync()
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
