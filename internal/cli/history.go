package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tagcheck/internal/store"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded suite runs",
		Long: `List past suite runs from the run history database, newest first,
with the per-case outcomes of each run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, dbPath, limit, cmd)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "run history database (default from config, then "+defaultDBPath+")")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to list (0 = all)")
	return cmd
}

func runHistory(opts *RootOptions, dbFlag string, limit int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db, err := store.Open(opts.Config.DBPath(dbFlag))
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	defer db.Close()

	runs, err := db.Runs(cmd.Context(), limit)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s\n", r.StartedAt.Format(time.RFC3339), r.ID, r.Suite)
		for _, res := range r.Results {
			fmt.Fprintf(formatter.Writer, "    %-40s %-12s %-12s %-12s\n",
				res.CaseName, res.Prepare, res.Run, res.Test)
		}
	}
	return nil
}
