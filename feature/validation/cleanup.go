package validation

import (
	"context"
)

// PrefixRemover deletes every object under a prefix.
type PrefixRemover interface {
	RemovePrefix(ctx context.Context, bucket, prefix string) (int, error)
}

// Cleanup removes the restored copies left in the test bucket by earlier runs
// and returns how many objects were deleted.
func Cleanup(ctx context.Context, remover PrefixRemover, cfg Config) (int, error) {
	if !cfg.RestoreEnabled() {
		return 0, &ConfigError{Field: "test_bucket", Reason: "is required for cleanup"}
	}
	if cfg.TestBucket == cfg.SourceBucket {
		return 0, &ConfigError{Field: "test_bucket", Reason: "must differ from source_bucket"}
	}
	return remover.RemovePrefix(ctx, cfg.TestBucket, cfg.restorePrefix())
}
