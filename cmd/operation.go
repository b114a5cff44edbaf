package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mlist-manager/core/config"
	"mlist-manager/core/database"
	"mlist-manager/core/logger"
	"mlist-manager/core/persist"
	"mlist-manager/core/reconcile"
	"mlist-manager/core/storage"
	"mlist-manager/feature/history"
	"mlist-manager/feature/roster"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var operationHelp = map[reconcile.Operation]struct {
	short, long string
}{
	reconcile.OperationExtract: {
		short: "Extract addresses from a text file",
		long: `Reads --input, extracts every address, normalizes and deduplicates them.
With --output the addresses are written there (refused if the file exists unless --force);
without it they are printed one per line.`,
	},
	reconcile.OperationUpdate: {
		short: "Reconcile the full, current and removed files",
		long: `Reads --full and --current (both required) and --removed (optional), moves addresses
that left the export to the removed list, merges everything into the full list and
rewrites the three files together.`,
	},
	reconcile.OperationAdd: {
		short: "Update the roster and stage new addresses for import",
		long: `Runs update, then extracts addresses from --input and writes those unknown to
both the full and removed lists to --output. The import addresses are merged into the
full list. All files are written together; nothing is written if --output exists and
--force is not set.`,
	},
}

// newOperationCmd builds the subcommand for one roster operation.
func newOperationCmd(op reconcile.Operation, opts *options) *cobra.Command {
	help := operationHelp[op]
	return &cobra.Command{
		Use:   string(op),
		Short: help.short,
		Long:  help.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, opts, op)
		},
	}
}

func runOperation(cmd *cobra.Command, opts *options, op reconcile.Operation) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	svc, _, closeSvc := newRosterService(ctx, cfg, l)
	defer closeSvc()

	res, err := svc.Run(ctx, op)
	if err != nil {
		return err
	}

	printResult(l, res)
	if op == reconcile.OperationExtract && cfg.Roster.Output == "" {
		out := cmd.OutOrStdout()
		for _, a := range res.Addresses {
			fmt.Fprintln(out, a)
		}
	}
	return nil
}

// newRosterService wires the roster service with the optional history database
// and storage mirror. Failing optional parts are logged and skipped; the returned
// repository is nil when history is off.
func newRosterService(ctx context.Context, cfg *config.Config, l *zap.Logger) (*roster.Service, *history.Repository, func()) {
	closer := func() {}

	var repo *history.Repository
	var recorder roster.Recorder
	if cfg.Database.Enabled {
		r, closeDB, err := openHistory(ctx, cfg.Database)
		if err != nil {
			l.Warn("Run history disabled", zap.Error(err))
		} else {
			repo, recorder, closer = r, r, closeDB
			l.Debug("Connected to history database", zap.String("driver", cfg.Database.Driver))
		}
	}

	var mirror *roster.Mirror
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Warn("Storage mirror disabled", zap.Error(err))
		} else {
			mirror = roster.NewMirror(client, afero.NewOsFs(), cfg.Storage)
		}
	}

	svc := roster.NewService(persist.NewOS(), cfg.Roster, l, recorder, mirror, cfg.Server.SummaryTTL())
	return svc, repo, closer
}

// openHistory connects to the history database and migrates it.
func openHistory(ctx context.Context, cfg database.Config) (*history.Repository, func(), error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}

	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	repo := history.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}
	return repo, closeDB, nil
}

// printResult reports an operation result using the logger.
func printResult(l *zap.Logger, res *reconcile.Result) {
	fields := []zap.Field{
		zap.String("operation", string(res.Operation)),
		zap.String("run_id", res.RunID),
	}

	switch res.Operation {
	case reconcile.OperationExtract:
		fields = append(fields, zap.Int("extracted", res.Extracted))
	default:
		fields = append(fields,
			zap.Int("full_before", res.Before.Full),
			zap.Int("full_after", res.After.Full),
			zap.Int("current_before", res.Before.Current),
			zap.Int("current_after", res.After.Current),
			zap.Int("removed_before", res.Before.Removed),
			zap.Int("removed_after", res.After.Removed),
			zap.Int("newly_removed", res.NewlyRemoved),
			zap.Int("resubscribed", res.Resubscribed),
			zap.Int("adopted", res.Adopted),
		)
		if res.Operation == reconcile.OperationAdd {
			fields = append(fields,
				zap.Int("extracted", res.Extracted),
				zap.Int("imported", res.Imported),
			)
		}
	}
	l.Info("Roster report", fields...)

	for _, p := range res.Written {
		l.Info("Wrote file", zap.String("path", p))
	}
	for _, e := range res.Errors {
		l.Warn("Non-fatal problem", zap.String("error", e))
	}
}
