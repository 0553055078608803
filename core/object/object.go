package object

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned by Store.Head when the key does not exist.
var ErrNotFound = errors.New("object not found")

// Descriptor is the metadata of a single object as read from a store.
// A fresh read of the same key may produce a different descriptor.
type Descriptor struct {
	// Key is unique within a bucket.
	Key string `json:"key"`
	// Size is the content length in bytes.
	Size uint64 `json:"size"`
	// Fingerprint is an opaque content identity token (e.g. an ETag).
	// It is compared for equality only.
	Fingerprint string `json:"fingerprint"`
}

// SameContent reports whether both size and fingerprint match.
func (d Descriptor) SameContent(other Descriptor) bool {
	return d.Size == other.Size && d.Fingerprint == other.Fingerprint
}

// Store is the object store capability consumed by the engine.
type Store interface {
	// Objects enumerates objects under prefix in store order.
	// A non-nil error ends the sequence and is always a *ListingError.
	Objects(ctx context.Context, bucket, prefix string) iter.Seq2[Descriptor, error]
	// Head fetches the metadata of a single object.
	Head(ctx context.Context, bucket, key string) (Descriptor, error)
	// Copy copies srcBucket/srcKey to dstBucket/dstKey.
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
}

// ListingError reports that enumerating a bucket/prefix could not complete.
// Any count derived from the partial enumeration is not trustworthy.
type ListingError struct {
	Bucket string
	Prefix string
	// Listed is the number of objects yielded before the failure.
	Listed int
	// Attempts is the number of page fetches tried for the failing page.
	Attempts int
	Err      error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing %s/%s failed after %d objects (%d attempts): %v",
		e.Bucket, e.Prefix, e.Listed, e.Attempts, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}
