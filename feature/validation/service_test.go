package validation

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"backup-validator/core/database"
	"backup-validator/core/metrics"
	"backup-validator/core/object"
	"backup-validator/core/report"
	"backup-validator/core/restore"
	"backup-validator/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func reachableClient() *mocks.Client {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, mock.Anything).Return(true, nil)
	return client
}

// drStore is the three key scenario: a replicated, b stale, c never copied.
func drStore() *mocks.Store {
	return mocks.NewStore().
		Put("primary",
			object.Descriptor{Key: "a", Size: 1, Fingerprint: "e1"},
			object.Descriptor{Key: "b", Size: 2, Fingerprint: "e2"},
			object.Descriptor{Key: "c", Size: 3, Fingerprint: "e3"},
		).
		Put("replica",
			object.Descriptor{Key: "a", Size: 1, Fingerprint: "e1"},
			object.Descriptor{Key: "b", Size: 2, Fingerprint: "eX"},
		)
}

func serviceConfig(t *testing.T) Config {
	cfg := validConfig()
	cfg.ReportFile = filepath.Join(t.TempDir(), "report.json")
	return cfg
}

func readDocument(t *testing.T, path string) report.Document {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc report.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestService_Run(t *testing.T) {
	store := drStore()
	cfg := serviceConfig(t)
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	before := testutil.ToFloat64(metrics.Runs.WithLabelValues(ResultFindings))
	r, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Summary.MatchingCount)
	assert.Equal(t, []string{"b"}, r.Summary.MismatchedKeys)
	assert.Equal(t, 1, r.Summary.MissingCount)
	assert.Empty(t, r.Summary.LookupErrorKeys)
	assert.Equal(t, 3, r.Summary.Total())

	require.Len(t, r.Restore, 2)
	assert.Equal(t, "a", r.Restore[0].Key)
	assert.Equal(t, "b", r.Restore[1].Key)
	assert.Equal(t, restore.Tally{Success: 2}, r.Tally)

	copied, ok := store.Get("restore", "restore-test/a")
	require.True(t, ok)
	assert.Equal(t, "e1", copied.Fingerprint)

	assert.False(t, r.StartTime.After(r.EndTime))
	assert.GreaterOrEqual(t, r.Duration, time.Duration(0))
	assert.NotEmpty(t, r.RunID)
	assert.Same(t, r, svc.Latest())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Runs.WithLabelValues(ResultFindings)))

	doc := readDocument(t, cfg.ReportFile)
	assert.Equal(t, r.RunID, doc.RunID)
	assert.Equal(t, "S3 Backup Validation", doc.TestName)
	assert.Equal(t, "restore", doc.TestLocation)
	assert.Equal(t, 3, doc.ComparisonResults.TotalCount)
	require.NotNil(t, doc.RestoreResults)
	assert.Equal(t, 2, doc.RestoreResults.SampleSize)
	assert.Equal(t, 2, doc.RestoreResults.SuccessCount)
}

func TestService_Run_Idempotent(t *testing.T) {
	store := drStore()
	cfg := serviceConfig(t)
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	first, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Tally, second.Tally)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestService_Run_WithoutTestBucket(t *testing.T) {
	store := drStore()
	cfg := serviceConfig(t)
	cfg.TestBucket = ""
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	r, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Nil(t, r.Restore)
	_, copies, _ := store.Calls()
	assert.Zero(t, copies)
	assert.Nil(t, readDocument(t, cfg.ReportFile).RestoreResults)
}

func TestService_Run_ZeroSample(t *testing.T) {
	store := drStore()
	cfg := serviceConfig(t)
	cfg.SampleSize = 0
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	r, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotNil(t, r.Restore)
	assert.Empty(t, r.Restore)
	doc := readDocument(t, cfg.ReportFile)
	require.NotNil(t, doc.RestoreResults)
	assert.Zero(t, doc.RestoreResults.SampleSize)
}

func TestService_Run_PartialRestoreFailure(t *testing.T) {
	store := drStore()
	store.CopyErrors["a"] = errors.New("access denied")
	store.CorruptCopies["b"] = true
	cfg := serviceConfig(t)
	cfg.SampleSize = 3
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	r, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, r.Restore, 3)
	assert.Equal(t, restore.StatusError, r.Restore[0].Status)
	assert.Equal(t, restore.StatusIntegrityFailure, r.Restore[1].Status)
	assert.Equal(t, restore.StatusSuccess, r.Restore[2].Status)
	assert.Equal(t, restore.Tally{Success: 1, IntegrityFailure: 1, Error: 1}, r.Tally)
}

func TestService_Run_ConfigErrorBeforeStoreCalls(t *testing.T) {
	store := drStore()
	client := new(mocks.Client)
	cfg := serviceConfig(t)
	cfg.SampleSize = -3
	svc := NewService(client, store, cfg, nil, zap.NewNop())

	before := testutil.ToFloat64(metrics.Runs.WithLabelValues(ResultFailed))
	r, err := svc.Run(context.Background(), cfg)

	assert.Nil(t, r)
	assert.True(t, IsConfigError(err))
	client.AssertNotCalled(t, "BucketExists", mock.Anything, mock.Anything)
	heads, copies, pulled := store.Calls()
	assert.Zero(t, heads+copies+pulled)
	assert.NoFileExists(t, cfg.ReportFile)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Runs.WithLabelValues(ResultFailed)))
}

func TestService_Run_ListingFailureAborts(t *testing.T) {
	store := drStore()
	store.ListErrAfter = 1
	cfg := serviceConfig(t)
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	r, err := svc.Run(context.Background(), cfg)

	assert.Nil(t, r)
	var le *object.ListingError
	assert.ErrorAs(t, err, &le)
	assert.NoFileExists(t, cfg.ReportFile)
	assert.Nil(t, svc.Latest())
}

func TestService_Run_Cancelled(t *testing.T) {
	cfg := serviceConfig(t)
	svc := NewService(reachableClient(), drStore(), cfg, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := svc.Run(ctx, cfg)

	assert.Nil(t, r)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.ReportFile)
}

func TestService_Run_PublishFailureKeepsReport(t *testing.T) {
	cfg := serviceConfig(t)
	cfg.ReportFile = t.TempDir() // a directory cannot be replaced by a file
	svc := NewService(reachableClient(), drStore(), cfg, nil, zap.NewNop())

	r, err := svc.Run(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish report")
	require.NotNil(t, r)
	assert.Same(t, r, svc.Latest())
}

func TestService_Run_UploadsReport(t *testing.T) {
	client := reachableClient()
	client.On("PutObject", mock.Anything, "reports", mock.AnythingOfType("string"), mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	cfg := serviceConfig(t)
	cfg.ReportBucket = "reports"
	cfg.ReportPrefix = "dr"
	svc := NewService(client, drStore(), cfg, nil, zap.NewNop())

	r, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	client.AssertCalled(t, "PutObject", mock.Anything, "reports", "dr/"+r.RunID+".json", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Run_RecordsHistory(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	history := NewHistory(db)
	require.NoError(t, history.Migrate())

	cfg := serviceConfig(t)
	svc := NewService(reachableClient(), drStore(), cfg, history, zap.NewNop())

	r, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	runs, err := history.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, r.RunID, runs[0].RunID)
	assert.Equal(t, 3, runs[0].TotalCount)
	assert.Equal(t, 1, runs[0].MismatchedCount)
	assert.Equal(t, 2, runs[0].RestoreSuccessCount)
	assert.Equal(t, ResultFindings, runs[0].Result)
}

func TestService_RunShared(t *testing.T) {
	cfg := serviceConfig(t)
	cfg.TestBucket = ""
	svc := NewService(reachableClient(), drStore(), cfg, nil, zap.NewNop())

	var wg sync.WaitGroup
	reports := make([]*report.Report, 4)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := svc.RunShared(context.Background(), cfg)
			assert.NoError(t, err)
			reports[i] = r
		}(i)
	}
	wg.Wait()

	for _, r := range reports {
		require.NotNil(t, r)
		assert.Equal(t, 3, r.Summary.Total())
	}
}

// gatedStore holds every listing until release is closed and signals entered
// when a listing starts.
type gatedStore struct {
	*mocks.Store
	entered chan struct{}
	release chan struct{}
}

func newGatedStore(inner *mocks.Store) *gatedStore {
	return &gatedStore{
		Store:   inner,
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (g *gatedStore) Objects(ctx context.Context, bucket, prefix string) iter.Seq2[object.Descriptor, error] {
	inner := g.Store.Objects(ctx, bucket, prefix)
	return func(yield func(object.Descriptor, error) bool) {
		g.entered <- struct{}{}
		select {
		case <-g.release:
		case <-ctx.Done():
		}
		inner(yield)
	}
}

func waitEntered(g *gatedStore) bool {
	select {
	case <-g.entered:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestService_RunShared_DistinctTestNames(t *testing.T) {
	store := newGatedStore(drStore())
	cfg := serviceConfig(t)
	cfg.TestBucket = ""
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	names := []string{"nightly-A", "adhoc-B"}
	got := make([]string, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := svc.RunShared(context.Background(), Overrides{TestName: &name}.Apply(cfg))
			if assert.NoError(t, err) {
				got[i] = r.TestName
			}
		}()
		// Each caller must be inside its own listing before the next one starts.
		require.True(t, waitEntered(store), "run for %q did not start", name)
	}
	close(store.release)
	wg.Wait()

	assert.Equal(t, names, got)
}

func TestService_RunShared_CallerCancellation(t *testing.T) {
	store := newGatedStore(drStore())
	cfg := serviceConfig(t)
	cfg.TestBucket = ""
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := svc.RunShared(ctx, cfg)
		errs <- err
	}()
	require.True(t, waitEntered(store))

	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)

	close(store.release)
	require.Eventually(t, func() bool { return svc.Latest() != nil }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, svc.Latest().Summary.Total())
	assert.Empty(t, store.entered, "the run must not be restarted")
}

func TestService_Close_CancelsSharedRuns(t *testing.T) {
	store := newGatedStore(drStore())
	cfg := serviceConfig(t)
	cfg.TestBucket = ""
	svc := NewService(reachableClient(), store, cfg, nil, zap.NewNop())

	errs := make(chan error, 1)
	go func() {
		_, err := svc.RunShared(context.Background(), cfg)
		errs <- err
	}()
	require.True(t, waitEntered(store))

	svc.Close()
	close(store.release)

	assert.ErrorIs(t, <-errs, context.Canceled)
	assert.Nil(t, svc.Latest())
	assert.NoFileExists(t, cfg.ReportFile)
}
