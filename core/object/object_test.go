package object_test

import (
	"errors"
	"fmt"
	"testing"

	"backup-validator/core/object"

	"github.com/stretchr/testify/assert"
)

func TestDescriptor_SameContent(t *testing.T) {
	base := object.Descriptor{Key: "a", Size: 10, Fingerprint: "h1"}

	tests := []struct {
		name  string
		other object.Descriptor
		want  bool
	}{
		{"Identical", object.Descriptor{Key: "a", Size: 10, Fingerprint: "h1"}, true},
		{"SizeDiffers", object.Descriptor{Key: "a", Size: 99, Fingerprint: "h1"}, false},
		{"FingerprintDiffers", object.Descriptor{Key: "a", Size: 10, Fingerprint: "h2"}, false},
		{"KeyIgnored", object.Descriptor{Key: "b", Size: 10, Fingerprint: "h1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.SameContent(tt.other))
		})
	}
}

func TestListingError(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := error(&object.ListingError{Bucket: "src", Prefix: "logs/", Listed: 42, Attempts: 4, Err: cause})

	assert.Contains(t, err.Error(), "src/logs/")
	assert.Contains(t, err.Error(), "42 objects")
	assert.True(t, errors.Is(err, cause))

	var le *object.ListingError
	assert.True(t, errors.As(fmt.Errorf("reconcile: %w", err), &le))
	assert.Equal(t, 42, le.Listed)
}
