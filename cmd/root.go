package cmd

import (
	"fmt"
	"os"

	"backup-validator/core/config"
	"backup-validator/core/database"
	"backup-validator/core/logger"
	"backup-validator/feature/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "backup-validator",
	Short: "Backup replication and restore validator",
	Long: `Backup Validator checks that a replicated bucket really is a usable backup.
It reconciles every source object against the replica and restores a sample
into a test bucket to prove the copies can be read back intact.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger shared by commands.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// openHistory connects the optional run history database. Failures are
// logged and leave history disabled.
func openHistory(cfg database.Config, l *zap.Logger) *validation.History {
	if !cfg.Enabled {
		return validation.NewHistory(nil)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		l.Warn("Optional database connection failed, run history disabled", zap.Error(err))
		return validation.NewHistory(nil)
	}

	history := validation.NewHistory(db)
	if err := history.Migrate(); err != nil {
		l.Warn("Run history schema check failed, run history disabled", zap.Error(err))
		return validation.NewHistory(nil)
	}

	l.Info("Run history enabled", zap.String("driver", cfg.Driver))
	return history
}
