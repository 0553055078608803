package cmd

import (
	"context"
	"errors"

	"backup-validator/feature/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyLimit int

// historyCmd lists recorded validation runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent validation runs",
	Long:  `Lists the summaries of recent validation runs stored in the run history database (DATABASE_ENABLED=true).`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	history := openHistory(cfg.Database, l)
	runs, err := history.List(context.Background(), historyLimit)
	if errors.Is(err, validation.ErrHistoryDisabled) {
		return errors.New("run history is not available, set DATABASE_ENABLED=true and check the database settings")
	}
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		l.Info("No runs recorded yet")
		return nil
	}

	for _, run := range runs {
		l.Info("Validation run",
			zap.String("run_id", run.RunID),
			zap.Time("start", run.StartTime),
			zap.Float64("duration_seconds", run.DurationSeconds),
			zap.String("source", run.Source),
			zap.String("destination", run.Destination),
			zap.Int("objects", run.TotalCount),
			zap.Int("mismatched", run.MismatchedCount),
			zap.Int("missing", run.MissingCount),
			zap.Int("lookup_errors", run.LookupErrorCount),
			zap.Int("restore_failures", run.RestoreFailureCount),
			zap.String("result", run.Result),
		)
	}
	return nil
}
