// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the operations
// a replication check needs: listing, stat, server-side copy and cleanup. This
// abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # ObjectStore
//
// ObjectStore adapts a Client to the object.Store capability. Its listing is
// resumable: when a page fetch fails it resumes after the last key it yielded,
// up to a bounded retry budget, and then reports an *object.ListingError instead
// of silently ending the sequence.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	store := storage.NewObjectStore(client, cfg.Storage, logger)
//	for obj, err := range store.Objects(ctx, "backups", "daily/") {
//	    ...
//	}
package storage
