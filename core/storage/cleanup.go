package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// RemovePrefix deletes every object under prefix in bucket and returns the
// number of objects removed. An empty prefix is refused so a misconfigured
// call cannot wipe a whole bucket.
func (s *ObjectStore) RemovePrefix(ctx context.Context, bucket, prefix string) (int, error) {
	if prefix == "" {
		return 0, fmt.Errorf("refusing to remove objects without a prefix")
	}

	objectsCh := make(chan minio.ObjectInfo)
	listErrCh := make(chan error, 1)
	queued := 0

	go func() {
		defer close(objectsCh)
		for obj, err := range s.Objects(ctx, bucket, prefix) {
			if err != nil {
				listErrCh <- err
				return
			}
			select {
			case objectsCh <- minio.ObjectInfo{Key: obj.Key}:
				queued++
			case <-ctx.Done():
				listErrCh <- ctx.Err()
				return
			}
		}
		listErrCh <- nil
	}()

	failed := 0
	var firstErr error
	for rErr := range s.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failed++
		if firstErr == nil {
			firstErr = rErr.Err
		}
		s.logger.Warn("Failed to remove object",
			zap.String("bucket", bucket),
			zap.String("key", rErr.ObjectName),
			zap.Error(rErr.Err),
		)
	}

	// RemoveObjects drains objectsCh before closing its error channel.
	if err := <-listErrCh; err != nil {
		return queued - failed, err
	}
	if firstErr != nil {
		return queued - failed, fmt.Errorf("failed to remove %d objects under %s/%s: %w", failed, bucket, prefix, firstErr)
	}
	return queued, nil
}
