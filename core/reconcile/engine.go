package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"backup-validator/core/metrics"
	"backup-validator/core/object"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine reconciles a source bucket against a destination bucket.
type Engine struct {
	store   object.Store
	workers int
	logger  *zap.Logger
}

// NewEngine creates an engine running at most workers concurrent dest lookups.
// A value below 1 runs lookups sequentially.
func NewEngine(store object.Store, workers int, logger *zap.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:   store,
		workers: workers,
		logger:  logger,
	}
}

// Reconcile classifies every object under prefix in source against dest.
// It fails only if the source listing cannot complete or ctx is cancelled;
// per-key lookup failures are recorded as StatusLookupError.
func (e *Engine) Reconcile(ctx context.Context, source, dest, prefix string) (*Result, error) {
	e.logger.Info("Reconciling buckets",
		zap.String("source", source),
		zap.String("destination", dest),
		zap.String("prefix", prefix),
		zap.Int("workers", e.workers),
	)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan object.Descriptor)
	completed := make(chan Record)

	// Producer
	g.Go(func() error {
		defer close(jobs)
		for obj, err := range e.store.Objects(gctx, source, prefix) {
			if err != nil {
				return err
			}
			select {
			case jobs <- obj:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// Workers
	var workers sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for obj := range jobs {
				destObj, err := e.store.Head(gctx, dest, obj.Key)
				rec := Classify(obj, destObj, err)
				select {
				case completed <- rec:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		workers.Wait()
		close(completed)
	}()

	// Collector
	records := make([]Record, 0)
	for rec := range completed {
		records = append(records, rec)
		metrics.ObjectsReconciled.WithLabelValues(rec.Status.String()).Inc()

		switch rec.Status {
		case StatusMismatch:
			e.logger.Debug("Object mismatch",
				zap.String("key", rec.Key),
				zap.Uint64("source_size", rec.Source.Size),
				zap.Uint64("dest_size", rec.Dest.Size),
			)
		case StatusLookupError:
			e.logger.Warn("Destination lookup failed", zap.String("key", rec.Key), zap.String("error", rec.Err))
		}
	}

	if err := g.Wait(); err != nil {
		var le *object.ListingError
		if errors.As(err, &le) {
			return nil, fmt.Errorf("source listing incomplete, counts are not trustworthy: %w", err)
		}
		return nil, fmt.Errorf("reconciliation aborted: %w", err)
	}
	// Lookups interrupted by cancellation would otherwise be recorded as lookup errors.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconciliation aborted: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})

	result := &Result{
		Summary: Summarize(records),
		Records: records,
	}

	e.logger.Info("Reconciliation finished",
		zap.Int("total", result.Summary.Total()),
		zap.Int("matching", result.Summary.MatchingCount),
		zap.Int("mismatched", len(result.Summary.MismatchedKeys)),
		zap.Int("missing", result.Summary.MissingCount),
		zap.Int("lookup_errors", len(result.Summary.LookupErrorKeys)),
	)

	return result, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, object.ErrNotFound)
}
