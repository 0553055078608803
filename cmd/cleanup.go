package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"backup-validator/core/restore"
	"backup-validator/core/storage"
	"backup-validator/feature/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yesConfirm bool

// cleanupCmd removes restored copies from the test bucket.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete restored copies left in the test bucket",
	Long: `Deletes every object under the restore prefix of the test bucket.
Restore verification never deletes its copies, so repeated drills accumulate them.

Examples:
  # With interactive confirmation
  backup-validator cleanup --test-bucket restore-drill

  # Non-interactive
  backup-validator cleanup --test-bucket restore-drill --yes`,
	RunE: runCleanup,
}

func init() {
	f := cleanupCmd.Flags()
	f.String("test-bucket", "", "Bucket holding restored copies")
	f.String("source", "", "Source bucket, refused as a cleanup target")
	f.String("restore-prefix", "", "Prefix of restored copies")
	f.BoolVar(&yesConfirm, "yes", false, "Auto-confirm deletion (non-interactive)")

	RootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	runCfg := cfg.Validation
	applyFlags(cmd, &runCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !runCfg.RestoreEnabled() {
		return &validation.ConfigError{Field: "test_bucket", Reason: "is required for cleanup"}
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return err
	}

	if !confirmDestructiveAction(fmt.Sprintf("delete everything under %s/%s", runCfg.TestBucket, restore.NormalizePrefix(runCfg.RestorePrefix))) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	removed, err := validation.Cleanup(ctx, storage.NewObjectStore(client, cfg.Storage, l), runCfg)
	if err != nil {
		return fmt.Errorf("cleanup failed after removing %d objects: %w", removed, err)
	}

	l.Info("Cleanup completed",
		zap.String("bucket", runCfg.TestBucket),
		zap.Int("removed", removed))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(action string) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  About to %s. Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
