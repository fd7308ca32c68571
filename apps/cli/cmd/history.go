package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/diplomat/packages/history"
	"github.com/abdul-hamid-achik/diplomat/packages/output"
)

func newHistoryCmd(global *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently recorded calls",
		Long: `List the calls recorded in the history database, newest first.

The database comes from --history, DIPLOMAT_HISTORY or the config file.

Examples:
  diplomat history --history calls.db
  diplomat history -n 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return exitWith(ExitConfigError, err)
			}
			if cfg.History == "" {
				return exitWith(ExitConfigError, fmt.Errorf("no history database configured (use --history)"))
			}

			formatter, err := output.NewFormatter(global.output, cmd.OutOrStdout(), cfg.GetVerbose(), cfg.GetNoColor())
			if err != nil {
				return exitWith(ExitUsageError, err)
			}

			store, err := history.Open(cfg.History)
			if err != nil {
				return exitWith(ExitConfigError, err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return exitWith(ExitErrored, err)
			}
			formatter.FormatHistory(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of calls to show")
	return cmd
}
