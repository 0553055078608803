package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"time"

	"backup-validator/core/metrics"
	"backup-validator/core/object"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ObjectStore adapts a Client to object.Store.
// It is safe for concurrent use as long as the underlying Client is.
type ObjectStore struct {
	client   Client
	retries  int
	backoff  time.Duration
	pageSize int
	logger   *zap.Logger
}

var _ object.Store = (*ObjectStore)(nil)

// NewObjectStore creates an ObjectStore using the listing settings from cfg.
func NewObjectStore(client Client, cfg Config, logger *zap.Logger) *ObjectStore {
	retries := cfg.ListRetries
	if retries < 0 {
		retries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectStore{
		client:   client,
		retries:  retries,
		backoff:  time.Duration(cfg.ListRetryBackoffMs) * time.Millisecond,
		pageSize: cfg.PageSize,
		logger:   logger,
	}
}

// Objects lists every object under prefix. Each range over the returned
// sequence is an independent enumeration.
//
// A failed page is retried by restarting the listing after the last key
// that was yielded, so every key is yielded at most once. When the retry
// budget is spent the sequence yields an *object.ListingError and stops.
func (s *ObjectStore) Objects(ctx context.Context, bucket, prefix string) iter.Seq2[object.Descriptor, error] {
	return func(yield func(object.Descriptor, error) bool) {
		var (
			startAfter string
			listed     int
			failures   int
		)

		for {
			stopped, err := s.listFrom(ctx, bucket, prefix, startAfter, func(info minio.ObjectInfo) bool {
				if !yield(toDescriptor(info), nil) {
					return false
				}
				startAfter = info.Key
				listed++
				failures = 0
				return true
			})
			if stopped {
				return
			}
			if err == nil {
				// The client closes the channel without an error on cancellation.
				if ctxErr := ctx.Err(); ctxErr != nil {
					yield(object.Descriptor{}, &object.ListingError{Bucket: bucket, Prefix: prefix, Listed: listed, Attempts: failures + 1, Err: ctxErr})
				}
				return
			}

			failures++
			if failures > s.retries || ctx.Err() != nil {
				yield(object.Descriptor{}, &object.ListingError{Bucket: bucket, Prefix: prefix, Listed: listed, Attempts: failures, Err: err})
				return
			}

			s.logger.Warn("Listing page failed, resuming",
				zap.String("bucket", bucket),
				zap.String("prefix", prefix),
				zap.String("start_after", startAfter),
				zap.Int("attempt", failures),
				zap.Error(err),
			)
			metrics.ListingRetries.WithLabelValues(bucket).Inc()

			if !sleepContext(ctx, s.backoff*time.Duration(failures)) {
				yield(object.Descriptor{}, &object.ListingError{Bucket: bucket, Prefix: prefix, Listed: listed, Attempts: failures, Err: ctx.Err()})
				return
			}
		}
	}
}

// listFrom runs one listing pass starting after startAfter and feeds every
// object to fn. It reports whether fn asked to stop and the in-band listing
// error, if any.
func (s *ObjectStore) listFrom(ctx context.Context, bucket, prefix, startAfter string, fn func(minio.ObjectInfo) bool) (bool, error) {
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: startAfter,
		MaxKeys:    s.pageSize,
	}

	for info := range s.client.ListObjects(listCtx, bucket, opts) {
		if info.Err != nil {
			return false, info.Err
		}
		// Stores that ignore StartAfter would replay keys we already yielded.
		if startAfter != "" && info.Key <= startAfter {
			continue
		}
		if !fn(info) {
			return true, nil
		}
	}
	return false, nil
}

// Head stats a single object. Absent keys yield an error wrapping
// object.ErrNotFound; any other failure is returned as is.
func (s *ObjectStore) Head(ctx context.Context, bucket, key string) (object.Descriptor, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return object.Descriptor{}, fmt.Errorf("%s/%s: %w", bucket, key, object.ErrNotFound)
		}
		return object.Descriptor{}, fmt.Errorf("stat %s/%s: %w", bucket, key, err)
	}
	info.Key = key
	return toDescriptor(info), nil
}

// Copy performs a server-side copy of srcBucket/srcKey to dstBucket/dstKey.
func (s *ObjectStore) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	if err != nil {
		return fmt.Errorf("copy %s/%s to %s/%s: %w", srcBucket, srcKey, dstBucket, dstKey, err)
	}
	return nil
}

// toDescriptor converts listing/stat metadata. ETags are compared as opaque
// tokens, so only the surrounding quotes are normalised away.
func toDescriptor(info minio.ObjectInfo) object.Descriptor {
	size := uint64(0)
	if info.Size > 0 {
		size = uint64(info.Size)
	}
	return object.Descriptor{
		Key:         info.Key,
		Size:        size,
		Fingerprint: strings.Trim(info.ETag, `"`),
	}
}

func isNotFound(err error) bool {
	if errors.Is(err, object.ErrNotFound) {
		return true
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		return true
	case "NoSuchBucket":
		// A missing bucket is a configuration problem, not a missing replica.
		return false
	}
	return resp.Code == "" && resp.StatusCode == http.StatusNotFound
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
