package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"backup-validator/core/storage"
	"backup-validator/feature/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// validateCmd runs one validation and writes the report.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Reconcile a bucket against its replica and verify restores",
	Long: `Compares every object under the prefix in the source bucket with the
destination bucket, then restores a sample into the test bucket and checks the
copies are identical.

Per-object findings are written to the report and do not change the exit
status. The command fails only when the run cannot produce trustworthy results.

Examples:
  # Reconcile only
  backup-validator validate --source primary --destination replica

  # Reconcile and verify 10 restores
  backup-validator validate --source primary --destination replica \
    --test-bucket restore-drill --sample-size 10

  # Also upload the report
  backup-validator validate --source primary --destination replica --report-bucket dr-reports`,
	RunE: runValidate,
}

func init() {
	registerRunFlags(validateCmd.Flags())
	RootCmd.AddCommand(validateCmd)
}

// registerRunFlags adds the flags that override validation settings.
func registerRunFlags(f *pflag.FlagSet) {
	f.String("source", "", "Source bucket")
	f.String("destination", "", "Destination (replica) bucket")
	f.String("test-bucket", "", "Bucket receiving restored copies (enables restore verification)")
	f.String("prefix", "", "Only validate keys under this prefix")
	f.String("restore-prefix", "", "Prefix restored copies are written under")
	f.Int("sample-size", 0, "Number of objects to restore")
	f.Int("workers", 0, "Concurrent lookups and restores")
	f.String("report-file", "", "Path of the JSON report")
	f.String("report-bucket", "", "Bucket the JSON report is uploaded to")
	f.String("test-name", "", "Name of the run in the report")
	f.Bool("create-test-bucket", false, "Create the test bucket when missing")
}

// applyFlags overrides configured values with the flags set on cmd.
func applyFlags(cmd *cobra.Command, cfg *validation.Config) {
	f := cmd.Flags()
	texts := map[string]*string{
		"source":         &cfg.SourceBucket,
		"destination":    &cfg.DestinationBucket,
		"test-bucket":    &cfg.TestBucket,
		"prefix":         &cfg.Prefix,
		"report-file":    &cfg.ReportFile,
		"report-bucket":  &cfg.ReportBucket,
		"test-name":      &cfg.TestName,
		"restore-prefix": &cfg.RestorePrefix,
	}
	for name, dst := range texts {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}

	ints := map[string]*int{
		"sample-size": &cfg.SampleSize,
		"workers":     &cfg.Workers,
	}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}

	if f.Changed("create-test-bucket") {
		cfg.CreateTestBucket, _ = f.GetBool("create-test-bucket")
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	runCfg := cfg.Validation
	applyFlags(cmd, &runCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return err
	}
	store := storage.NewObjectStore(client, cfg.Storage, l)

	svc := validation.NewService(client, store, runCfg, openHistory(cfg.Database, l), l)
	r, err := svc.Run(ctx, runCfg)
	if err != nil {
		return err
	}

	if runCfg.ReportFile != "" {
		l.Info("Report written", zap.String("path", runCfg.ReportFile))
	}
	if r.HasFindings() {
		l.Warn("Validation found issues, see the report for details", zap.String("run_id", r.RunID))
	}
	return nil
}
