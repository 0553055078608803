package mocks

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"

	"backup-validator/core/object"
)

// Store is an in-memory object.Store. Buckets are created on first Put.
// Failures are injected per key through the exported maps, which must be
// set up before the store is used concurrently.
type Store struct {
	mu      sync.Mutex
	buckets map[string]map[string]object.Descriptor

	// HeadErrors maps "bucket/key" to an error returned by Head.
	HeadErrors map[string]error
	// CopyErrors maps a source key to an error returned by Copy.
	CopyErrors map[string]error
	// CorruptCopies lists source keys whose copies get a different fingerprint.
	CorruptCopies map[string]bool
	// ListErrAfter, when >= 0, makes Objects fail after that many objects.
	ListErrAfter int

	heads  int
	copies int
	pulled int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		buckets:       make(map[string]map[string]object.Descriptor),
		HeadErrors:    make(map[string]error),
		CopyErrors:    make(map[string]error),
		CorruptCopies: make(map[string]bool),
		ListErrAfter:  -1,
	}
}

// Put stores descriptors in bucket.
func (s *Store) Put(bucket string, objs ...object.Descriptor) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucket]
	if !ok {
		b = make(map[string]object.Descriptor)
		s.buckets[bucket] = b
	}
	for _, o := range objs {
		b[o.Key] = o
	}
	return s
}

// Get returns the descriptor stored at bucket/key.
func (s *Store) Get(bucket, key string) (object.Descriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.buckets[bucket][key]
	return d, ok
}

// Objects lists bucket in lexical key order.
func (s *Store) Objects(ctx context.Context, bucket, prefix string) iter.Seq2[object.Descriptor, error] {
	return func(yield func(object.Descriptor, error) bool) {
		s.mu.Lock()
		var objs []object.Descriptor
		for key, d := range s.buckets[bucket] {
			if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
				objs = append(objs, d)
			}
		}
		failAfter := s.ListErrAfter
		s.mu.Unlock()

		sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })

		for i, d := range objs {
			if failAfter >= 0 && i == failAfter {
				yield(object.Descriptor{}, &object.ListingError{Bucket: bucket, Prefix: prefix, Listed: i, Attempts: 1, Err: fmt.Errorf("page fetch failed")})
				return
			}
			if err := ctx.Err(); err != nil {
				yield(object.Descriptor{}, &object.ListingError{Bucket: bucket, Prefix: prefix, Listed: i, Attempts: 1, Err: err})
				return
			}
			s.mu.Lock()
			s.pulled++
			s.mu.Unlock()
			if !yield(d, nil) {
				return
			}
		}
	}
}

// Head returns the stored descriptor or an error wrapping object.ErrNotFound.
func (s *Store) Head(ctx context.Context, bucket, key string) (object.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heads++
	if err := ctx.Err(); err != nil {
		return object.Descriptor{}, err
	}
	if err, ok := s.HeadErrors[bucket+"/"+key]; ok {
		return object.Descriptor{}, err
	}
	d, ok := s.buckets[bucket][key]
	if !ok {
		return object.Descriptor{}, fmt.Errorf("%s/%s: %w", bucket, key, object.ErrNotFound)
	}
	return d, nil
}

// Copy duplicates srcBucket/srcKey into dstBucket/dstKey.
func (s *Store) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copies++
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := s.CopyErrors[srcKey]; ok {
		return err
	}
	d, ok := s.buckets[srcBucket][srcKey]
	if !ok {
		return fmt.Errorf("copy source %s/%s: %w", srcBucket, srcKey, object.ErrNotFound)
	}
	d.Key = dstKey
	if s.CorruptCopies[srcKey] {
		d.Fingerprint += "-corrupt"
	}
	b, ok := s.buckets[dstBucket]
	if !ok {
		b = make(map[string]object.Descriptor)
		s.buckets[dstBucket] = b
	}
	b[dstKey] = d
	return nil
}

// Calls returns how many Head and Copy calls were served and how many
// objects were yielded by Objects.
func (s *Store) Calls() (heads, copies, pulled int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heads, s.copies, s.pulled
}
