package validation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"backup-validator/core/metrics"
	"backup-validator/core/object"
	"backup-validator/core/reconcile"
	"backup-validator/core/report"
	"backup-validator/core/restore"
	"backup-validator/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service runs validations: reconciliation of a source against its replica
// followed by restore verification of a sample.
type Service struct {
	client  storage.Client
	store   object.Store
	history *History
	logger  *zap.Logger
	config  Config

	group singleflight.Group
	// shared bounds runs started by RunShared; Close cancels it.
	shared context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	latest *report.Report

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates a validation service. history may be nil.
func NewService(client storage.Client, store object.Store, cfg Config, history *History, logger *zap.Logger) *Service {
	if history == nil {
		history = NewHistory(nil)
	}
	shared, cancel := context.WithCancel(context.Background())
	return &Service{
		client:  client,
		store:   store,
		history: history,
		logger:  logger,
		config:  cfg,
		shared:  shared,
		cancel:  cancel,
		now:     time.Now,
	}
}

// Close cancels runs started by RunShared that are still in flight.
func (s *Service) Close() {
	s.cancel()
}

// Config returns the configured defaults.
func (s *Service) Config() Config {
	return s.config
}

// History returns the run history store.
func (s *Service) History() *History {
	return s.history
}

// Latest returns the most recent finished report, or nil.
func (s *Service) Latest() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// RunShared executes Run with cfg, collapsing concurrent calls that would
// produce the same report into one. The run is detached from every caller:
// a caller whose ctx ends gets ctx.Err() while the run continues for the
// others. Only Close cancels it.
func (s *Service) RunShared(ctx context.Context, cfg Config) (*report.Report, error) {
	ch := s.group.DoChan(cfg.key(), func() (any, error) {
		return s.Run(s.shared, cfg)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Joined in-flight run", zap.String("source", cfg.SourceBucket))
		}
		r, _ := res.Val.(*report.Report)
		return r, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run executes one validation with cfg. It returns an error only when the run
// could not produce trustworthy results (invalid settings, unreachable
// buckets, incomplete listings) or when the report could not be written; per
// key findings are carried in the report. On a publish failure the report is
// returned together with the error.
func (s *Service) Run(ctx context.Context, cfg Config) (*report.Report, error) {
	r, err := s.run(ctx, cfg)
	if err != nil && r == nil {
		metrics.Runs.WithLabelValues(ResultFailed).Inc()
		return nil, err
	}

	metrics.Runs.WithLabelValues(resultOf(r)).Inc()
	metrics.RunDuration.Observe(r.Duration.Seconds())

	s.mu.Lock()
	s.latest = r
	s.mu.Unlock()

	if s.history.Enabled() {
		if herr := s.history.Save(ctx, r); herr != nil {
			s.logger.Warn("Failed to record run history", zap.String("run_id", r.RunID), zap.Error(herr))
		}
	}

	return r, err
}

func (s *Service) run(ctx context.Context, cfg Config) (*report.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := Preflight(ctx, s.client, cfg, s.logger); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	l := s.logger.With(zap.String("run_id", runID))
	start := s.now()

	l.Info("Starting validation run",
		zap.String("source", cfg.SourceBucket),
		zap.String("destination", cfg.DestinationBucket),
		zap.String("prefix", cfg.Prefix))

	engine := reconcile.NewEngine(s.store, cfg.Workers, l)
	result, err := engine.Reconcile(ctx, cfg.SourceBucket, cfg.DestinationBucket, cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}

	var attempts []restore.Attempt
	if cfg.RestoreEnabled() {
		attempts, err = s.verifyRestores(ctx, cfg, l)
		if err != nil {
			return nil, err
		}
	}

	r := report.Build(report.Input{
		RunID:          runID,
		TestName:       cfg.testName(),
		Start:          start,
		End:            s.now(),
		Source:         cfg.SourceBucket,
		Destination:    cfg.DestinationBucket,
		TestBucket:     cfg.TestBucket,
		Prefix:         cfg.Prefix,
		Reconciliation: result,
		Restore:        attempts,
	})

	logSummary(l, r)

	if err := report.Publish(ctx, r, sinksFor(cfg, s.client)...); err != nil {
		return r, fmt.Errorf("failed to publish report: %w", err)
	}
	return r, nil
}

// verifyRestores samples the source listing and restores the sample. The
// result is never nil so an empty sample is still reported.
func (s *Service) verifyRestores(ctx context.Context, cfg Config, l *zap.Logger) ([]restore.Attempt, error) {
	keys, err := restore.Sample(s.store.Objects(ctx, cfg.SourceBucket, cfg.Prefix), cfg.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("sampling failed: %w", err)
	}

	l.Info("Verifying restores",
		zap.String("test_bucket", cfg.TestBucket),
		zap.Int("sample_size", len(keys)))

	verifier := restore.NewVerifier(s.store, cfg.restorePrefix(), cfg.Workers, l)
	attempts := verifier.Verify(ctx, cfg.SourceBucket, cfg.TestBucket, keys)
	if attempts == nil {
		attempts = []restore.Attempt{}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("restore verification aborted: %w", err)
	}
	return attempts, nil
}

func sinksFor(cfg Config, client storage.Client) []report.Sink {
	var sinks []report.Sink
	if cfg.ReportFile != "" {
		sinks = append(sinks, report.FileSink{Path: cfg.ReportFile})
	}
	if cfg.ReportBucket != "" {
		sinks = append(sinks, report.BucketSink{Client: client, Bucket: cfg.ReportBucket, Prefix: cfg.ReportPrefix})
	}
	return sinks
}

func logSummary(l *zap.Logger, r *report.Report) {
	l.Info("Validation run completed",
		zap.String("source", r.Source),
		zap.String("destination", r.Destination),
		zap.Int("objects_compared", r.Summary.Total()),
		zap.Int("matching", r.Summary.MatchingCount),
		zap.Int("mismatched", len(r.Summary.MismatchedKeys)),
		zap.Int("missing", r.Summary.MissingCount),
		zap.Int("lookup_errors", len(r.Summary.LookupErrorKeys)),
		zap.Duration("duration", r.Duration))

	if r.Restore != nil {
		l.Info("Restore verification completed",
			zap.Int("sample_size", len(r.Restore)),
			zap.Int("success", r.Tally.Success),
			zap.Int("integrity_failures", r.Tally.IntegrityFailure),
			zap.Int("errors", r.Tally.Error))
	}

	if len(r.Summary.MismatchedKeys) > 0 {
		l.Warn("Objects differ between source and destination", zap.Strings("keys", r.Summary.MismatchedKeys))
	}
	if len(r.Summary.LookupErrorKeys) > 0 {
		l.Warn("Destination lookups failed", zap.Strings("keys", r.Summary.LookupErrorKeys))
	}
}

// IsConfigError reports whether err was caused by invalid run settings.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
