package restore

import (
	"context"
	"strings"

	"backup-validator/core/metrics"
	"backup-validator/core/object"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Verifier copies sampled objects into a test location and checks that the
// copies are identical to the originals.
type Verifier struct {
	store   object.Store
	prefix  string
	workers int
	logger  *zap.Logger
}

// NormalizePrefix returns the test location prefix restored copies are
// written under: DefaultPrefix when empty, always ending in "/".
func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return DefaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// NewVerifier creates a Verifier writing copies under NormalizePrefix(prefix)
// with at most workers concurrent restores.
func NewVerifier(store object.Store, prefix string, workers int, logger *zap.Logger) *Verifier {
	prefix = NormalizePrefix(prefix)
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		store:   store,
		prefix:  prefix,
		workers: workers,
		logger:  logger,
	}
}

// TestKey returns the key a restored copy of key is written to. The source
// key is kept verbatim so distinct keys never share a copy.
func (v *Verifier) TestKey(key string) string {
	return v.prefix + key
}

// Verify restores every key from source into testBucket. Attempts are
// returned in the order of keys. Keys not yet started when ctx is cancelled
// are recorded as StatusError.
func (v *Verifier) Verify(ctx context.Context, source, testBucket string, keys []string) []Attempt {
	v.logger.Info("Testing restoration of sample objects",
		zap.Int("count", len(keys)),
		zap.String("source", source),
		zap.String("test_bucket", testBucket),
	)

	attempts := make([]Attempt, len(keys))

	var g errgroup.Group
	g.SetLimit(v.workers)
	for i, key := range keys {
		g.Go(func() error {
			// Each goroutine owns attempts[i].
			attempts[i] = v.verifyOne(ctx, source, testBucket, key)
			return nil
		})
	}
	_ = g.Wait()

	for _, a := range attempts {
		metrics.RestoreAttempts.WithLabelValues(a.Status.String()).Inc()
	}

	tally := Count(attempts)
	v.logger.Info("Restore verification finished",
		zap.Int("success", tally.Success),
		zap.Int("integrity_failures", tally.IntegrityFailure),
		zap.Int("errors", tally.Error),
	)
	return attempts
}

func (v *Verifier) verifyOne(ctx context.Context, source, testBucket, key string) Attempt {
	if err := ctx.Err(); err != nil {
		return Attempt{Key: key, Status: StatusError, Message: err.Error()}
	}

	testKey := v.TestKey(key)
	log := v.logger.With(zap.String("key", key), zap.String("test_key", testKey))

	if err := v.store.Copy(ctx, source, key, testBucket, testKey); err != nil {
		log.Warn("Restore copy failed", zap.Error(err))
		return Attempt{Key: key, Status: StatusError, Message: err.Error()}
	}

	original, err := v.store.Head(ctx, source, key)
	if err != nil {
		log.Warn("Failed to read original after restore", zap.Error(err))
		return Attempt{Key: key, Status: StatusError, Message: err.Error()}
	}

	restored, err := v.store.Head(ctx, testBucket, testKey)
	if err != nil {
		log.Warn("Failed to read restored copy", zap.Error(err))
		return Attempt{Key: key, Status: StatusError, Message: err.Error(), SourceFingerprint: original.Fingerprint}
	}

	attempt := Attempt{
		Key:                 key,
		SourceFingerprint:   original.Fingerprint,
		RestoredFingerprint: restored.Fingerprint,
	}
	if original.SameContent(restored) {
		attempt.Status = StatusSuccess
	} else {
		attempt.Status = StatusIntegrityFailure
		log.Error("Restored copy differs from original",
			zap.String("source_fingerprint", original.Fingerprint),
			zap.String("restored_fingerprint", restored.Fingerprint),
			zap.Uint64("source_size", original.Size),
			zap.Uint64("restored_size", restored.Size),
		)
	}
	return attempt
}
