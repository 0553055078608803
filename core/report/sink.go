package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"backup-validator/core/storage"

	"github.com/minio/minio-go/v7"
)

// Sink receives the encoded report of a run.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Write stores data in full or fails without leaving a partial document.
	Write(ctx context.Context, r *Report, data []byte) error
}

// Publish encodes r once and writes the same bytes to every sink. All sinks
// are attempted; the returned error joins every failure.
func Publish(ctx context.Context, r *Report, sinks ...Sink) error {
	data, err := r.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	var errs []error
	for _, s := range sinks {
		if err := s.Write(ctx, r, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// FileSink writes the report to a local file.
type FileSink struct {
	Path string
}

func (s FileSink) Name() string {
	return "file:" + s.Path
}

// Write writes data to a temporary file next to Path and renames it into
// place.
func (s FileSink) Write(_ context.Context, _ *Report, data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary report: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}

// BucketSink uploads the report as <Prefix>/<run id>.json. A single PUT is
// atomic from the reader's point of view.
type BucketSink struct {
	Client storage.Client
	Bucket string
	Prefix string
}

func (s BucketSink) Name() string {
	return "bucket:" + s.Bucket
}

// Key returns the object key the report of r is stored under.
func (s BucketSink) Key(r *Report) string {
	return path.Join(s.Prefix, r.RunID+".json")
}

func (s BucketSink) Write(ctx context.Context, r *Report, data []byte) error {
	_, err := s.Client.PutObject(ctx, s.Bucket, s.Key(r), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	return nil
}
