package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemover struct {
	bucket, prefix string
	removed        int
}

func (f *fakeRemover) RemovePrefix(ctx context.Context, bucket, prefix string) (int, error) {
	f.bucket, f.prefix = bucket, prefix
	return f.removed, nil
}

func TestCleanup(t *testing.T) {
	remover := &fakeRemover{removed: 7}

	n, err := Cleanup(context.Background(), remover, validConfig())
	require.NoError(t, err)

	assert.Equal(t, 7, n)
	assert.Equal(t, "restore", remover.bucket)
	assert.Equal(t, "restore-test/", remover.prefix)
}

func TestCleanup_RequiresTestBucket(t *testing.T) {
	remover := &fakeRemover{}
	cfg := validConfig()
	cfg.TestBucket = ""

	_, err := Cleanup(context.Background(), remover, cfg)
	assert.True(t, IsConfigError(err))
	assert.Empty(t, remover.bucket)

	cfg.TestBucket = cfg.SourceBucket
	_, err = Cleanup(context.Background(), remover, cfg)
	assert.True(t, IsConfigError(err))
	assert.Empty(t, remover.bucket)
}

func TestCleanup_NormalizesPrefix(t *testing.T) {
	remover := &fakeRemover{}
	cfg := validConfig()
	cfg.RestorePrefix = "drills"

	_, err := Cleanup(context.Background(), remover, cfg)
	require.NoError(t, err)
	assert.Equal(t, "drills/", remover.prefix)
}
