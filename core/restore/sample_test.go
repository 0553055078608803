package restore_test

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"testing"

	"backup-validator/core/object"
	"backup-validator/core/restore"
	"backup-validator/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keySeq yields keys and counts how many were pulled.
func keySeq(pulled *int, keys ...string) iter.Seq2[object.Descriptor, error] {
	return func(yield func(object.Descriptor, error) bool) {
		for _, k := range keys {
			*pulled++
			if !yield(object.Descriptor{Key: k}, nil) {
				return
			}
		}
	}
}

func TestSample(t *testing.T) {
	keys := []string{"k1", "k2", "k3", "k4"}

	tests := []struct {
		name   string
		n      int
		want   []string
		pulled int
	}{
		{"Zero", 0, []string{}, 0},
		{"Negative", -3, []string{}, 0},
		{"FirstTwo", 2, []string{"k1", "k2"}, 2},
		{"Exact", 4, []string{"k1", "k2", "k3", "k4"}, 4},
		{"MoreThanAvailable", 10, []string{"k1", "k2", "k3", "k4"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pulled := 0
			got, err := restore.Sample(keySeq(&pulled, keys...), tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.pulled, pulled, "must stop pulling once n keys are collected")
		})
	}
}

func TestSample_FromStoreStopsEarly(t *testing.T) {
	store := mocks.NewStore()
	for i := 0; i < 1000; i++ {
		store.Put("src", object.Descriptor{Key: fmt.Sprintf("obj/%04d", i)})
	}

	got, err := restore.Sample(store.Objects(context.Background(), "src", "obj/"), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"obj/0000", "obj/0001", "obj/0002"}, got)

	_, _, pulled := store.Calls()
	assert.Equal(t, 3, pulled)
}

func TestSample_ListingError(t *testing.T) {
	store := mocks.NewStore().Put("src", object.Descriptor{Key: "a"}, object.Descriptor{Key: "b"})
	store.ListErrAfter = 1

	got, err := restore.Sample(store.Objects(context.Background(), "src", ""), 5)
	assert.Nil(t, got)
	var le *object.ListingError
	assert.True(t, errors.As(err, &le))

	// Enough keys before the failure: the failing page is never pulled.
	got, err = restore.Sample(store.Objects(context.Background(), "src", ""), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}
