package validation

import (
	"context"
	"fmt"

	"backup-validator/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Preflight confirms that every bucket of the run is reachable. A missing
// test bucket is created when cfg.CreateTestBucket is set.
func Preflight(ctx context.Context, client storage.Client, cfg Config, logger *zap.Logger) error {
	type bucket struct{ field, name string }
	buckets := []bucket{
		{"source_bucket", cfg.SourceBucket},
		{"destination_bucket", cfg.DestinationBucket},
	}
	if cfg.ReportBucket != "" {
		buckets = append(buckets, bucket{"report_bucket", cfg.ReportBucket})
	}

	for _, b := range buckets {
		if err := requireBucket(ctx, client, b.field, b.name); err != nil {
			return err
		}
	}

	if !cfg.RestoreEnabled() {
		return nil
	}

	exists, err := client.BucketExists(ctx, cfg.TestBucket)
	if err != nil {
		return &ConfigError{Field: "test_bucket", Reason: fmt.Sprintf("%q is unreachable", cfg.TestBucket), Err: err}
	}
	if exists {
		return nil
	}
	if !cfg.CreateTestBucket {
		return &ConfigError{Field: "test_bucket", Reason: fmt.Sprintf("%q does not exist", cfg.TestBucket)}
	}

	logger.Info("Creating test bucket", zap.String("bucket", cfg.TestBucket))
	if err := client.MakeBucket(ctx, cfg.TestBucket, minio.MakeBucketOptions{}); err != nil {
		return &ConfigError{Field: "test_bucket", Reason: fmt.Sprintf("%q could not be created", cfg.TestBucket), Err: err}
	}
	return nil
}

func requireBucket(ctx context.Context, client storage.Client, field, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("%q is unreachable", bucket), Err: err}
	}
	if !exists {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("%q does not exist", bucket)}
	}
	return nil
}
