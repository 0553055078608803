// Package object defines the object model shared by the reconciliation and
// restore packages, and the store capability they consume.
//
// # Store
//
// The Store interface is the only view the engine has of an object store:
//
//	type Store interface {
//	    Objects(ctx context.Context, bucket, prefix string) iter.Seq2[Descriptor, error]
//	    Head(ctx context.Context, bucket, key string) (Descriptor, error)
//	    Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
//	}
//
// Objects returns a lazy, restartable sequence: every range over it starts a new
// enumeration. Pagination tokens never leak through this interface.
//
// Head returns ErrNotFound (possibly wrapped) when the key is absent. Any other
// error is a lookup failure and must not be treated as absence.
package object
