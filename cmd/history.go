package cmd

import (
	"fmt"
	"text/tabwriter"

	"mlist-manager/core/logger"
	"mlist-manager/feature/history"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent roster runs",
		Long:  `Lists the most recent runs recorded in the history database, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			l, err := logger.New(&cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer l.Sync()

			if !cfg.Database.Enabled {
				return fmt.Errorf("history database is disabled (set DATABASE_ENABLED=true)")
			}

			repo, closeDB, err := openHistory(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer closeDB()

			runs, err := repo.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			printRuns(cmd, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Number of runs to list")
	return cmd
}

func printRuns(cmd *cobra.Command, runs []history.Run) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tOPERATION\tSTATUS\tFULL\tCURRENT\tREMOVED\tIMPORTED\tID")
	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Operation,
			status,
			r.FullAfter,
			r.CurrentAfter,
			r.RemovedAfter,
			r.Imported,
			r.ID,
		)
	}
	_ = w.Flush()
}
