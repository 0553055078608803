// Package restore exercises a sample of replicated objects through an actual
// restore: each sampled key is copied into an isolated test location and the
// fingerprints of the original and the copy are compared.
//
// Sample picks the first n keys of an enumeration and stops pulling from the
// listing as soon as it has them. Verifier treats every key independently: a
// copy failure is recorded as StatusError and the remaining keys are still
// attempted. A copy that succeeds but carries different content is recorded as
// StatusIntegrityFailure, which is the more serious finding.
//
// Restored copies live under a dedicated prefix (DefaultPrefix) so they never
// collide with real data. Re-running a verification overwrites the same keys.
package restore
