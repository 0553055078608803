// Package reconcile classifies the replication state of every object under a
// prefix by comparing a source bucket against a destination bucket.
//
// The engine streams source descriptors from an object.Store and issues one
// metadata lookup per key against the destination. Each comparison is
// independent, so the work is spread over a bounded worker pool:
//
//   - one producer ranges the source listing and feeds a jobs channel
//   - N workers perform the destination lookups
//   - a single collector owns the records and the counters
//
// # Classification
//
//   - Match: present at dest with equal size and fingerprint
//   - Mismatch: present at dest but size or fingerprint differs
//   - Missing: the dest lookup reported object.ErrNotFound
//   - LookupError: the dest lookup failed for any other reason
//
// LookupError is never folded into Missing or Match: an authorization or
// configuration regression must not read as data loss.
//
// # Failure
//
// A source listing failure aborts the run with the *object.ListingError.
//
// # Usage
//
//	engine := reconcile.NewEngine(store, 4, logger)
//	result, err := engine.Reconcile(ctx, "primary", "replica", "daily/")
//	fmt.Println(result.Summary.MatchingCount)
package reconcile
