package restore_test

import (
	"context"
	"fmt"
	"testing"

	"backup-validator/core/object"
	"backup-validator/core/restore"
	"backup-validator/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sourceStore(keys ...string) *mocks.Store {
	store := mocks.NewStore()
	for i, k := range keys {
		store.Put("src", object.Descriptor{Key: k, Size: uint64(10 * (i + 1)), Fingerprint: "fp-" + k})
	}
	return store
}

func TestVerifier_RoundTrip(t *testing.T) {
	store := sourceStore("k1", "k2", "dir/k3")
	v := restore.NewVerifier(store, "", 2, zap.NewNop())

	attempts := v.Verify(context.Background(), "src", "test", []string{"k1", "k2", "dir/k3"})
	require.Len(t, attempts, 3)

	for i, key := range []string{"k1", "k2", "dir/k3"} {
		assert.Equal(t, key, attempts[i].Key)
		assert.Equal(t, restore.StatusSuccess, attempts[i].Status)
		assert.Equal(t, "fp-"+key, attempts[i].SourceFingerprint)
		assert.Equal(t, "fp-"+key, attempts[i].RestoredFingerprint)

		_, ok := store.Get("test", "restore-test/"+key)
		assert.True(t, ok, "copy written under the test prefix")
	}
	_, ok := store.Get("test", "k1")
	assert.False(t, ok, "copies never land outside the test prefix")
}

func TestVerifier_IntegrityFailureIsNotError(t *testing.T) {
	store := sourceStore("k1", "k2")
	store.CorruptCopies["k2"] = true

	attempts := restore.NewVerifier(store, "", 1, zap.NewNop()).
		Verify(context.Background(), "src", "test", []string{"k1", "k2"})

	assert.Equal(t, restore.StatusSuccess, attempts[0].Status)
	assert.Equal(t, restore.StatusIntegrityFailure, attempts[1].Status)
	assert.Empty(t, attempts[1].Message)
	assert.Equal(t, "fp-k2", attempts[1].SourceFingerprint)
	assert.Equal(t, "fp-k2-corrupt", attempts[1].RestoredFingerprint)
}

// TestVerifier_PartialFailureIsolation tests that a transport error on one key
// does not prevent the others from being verified.
func TestVerifier_PartialFailureIsolation(t *testing.T) {
	store := sourceStore("k1", "k2", "k3")
	store.CorruptCopies["k2"] = true
	store.CopyErrors["k3"] = fmt.Errorf("connection refused")

	attempts := restore.NewVerifier(store, "", 3, zap.NewNop()).
		Verify(context.Background(), "src", "test", []string{"k1", "k2", "k3"})

	require.Len(t, attempts, 3)
	assert.Equal(t, restore.StatusSuccess, attempts[0].Status)
	assert.Equal(t, restore.StatusIntegrityFailure, attempts[1].Status)
	assert.Equal(t, restore.StatusError, attempts[2].Status)
	assert.Contains(t, attempts[2].Message, "connection refused")
	assert.Empty(t, attempts[2].RestoredFingerprint)

	tally := restore.Count(attempts)
	assert.Equal(t, restore.Tally{Success: 1, IntegrityFailure: 1, Error: 1}, tally)
	assert.Equal(t, 2, tally.Failures())
}

func TestVerifier_HeadFailureAfterCopy(t *testing.T) {
	store := sourceStore("k1")
	store.HeadErrors["test/restore-test/k1"] = fmt.Errorf("throttled")

	attempts := restore.NewVerifier(store, "", 1, zap.NewNop()).
		Verify(context.Background(), "src", "test", []string{"k1"})

	assert.Equal(t, restore.StatusError, attempts[0].Status)
	assert.Contains(t, attempts[0].Message, "throttled")
}

func TestVerifier_Idempotent(t *testing.T) {
	store := sourceStore("k1", "k2")
	v := restore.NewVerifier(store, "", 2, zap.NewNop())

	first := v.Verify(context.Background(), "src", "test", []string{"k1", "k2"})
	second := v.Verify(context.Background(), "src", "test", []string{"k1", "k2"})
	assert.Equal(t, first, second)
}

func TestVerifier_Cancelled(t *testing.T) {
	store := sourceStore("k1", "k2")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := restore.NewVerifier(store, "", 1, zap.NewNop()).Verify(ctx, "src", "test", []string{"k1", "k2"})
	for _, a := range attempts {
		assert.Equal(t, restore.StatusError, a.Status)
	}
	_, copies, _ := store.Calls()
	assert.Equal(t, 0, copies)
}

func TestVerifier_Empty(t *testing.T) {
	attempts := restore.NewVerifier(mocks.NewStore(), "", 1, zap.NewNop()).Verify(context.Background(), "src", "test", nil)
	assert.Empty(t, attempts)
}

func TestVerifier_TestKey(t *testing.T) {
	assert.Equal(t, "restore-test/a/b.txt", restore.NewVerifier(nil, "", 1, nil).TestKey("a/b.txt"))
	assert.Equal(t, "dr/a", restore.NewVerifier(nil, "dr", 1, nil).TestKey("a"))
	assert.Equal(t, "dr/a", restore.NewVerifier(nil, "dr/", 1, nil).TestKey("a"))
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "restore-test/", restore.NormalizePrefix(""))
	assert.Equal(t, "dr/", restore.NormalizePrefix("dr"))
	assert.Equal(t, "dr/", restore.NormalizePrefix("dr/"))
	assert.Equal(t, "drills/2026/", restore.NormalizePrefix("drills/2026"))
}
