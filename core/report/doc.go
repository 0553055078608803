// Package report assembles the outcome of a validation run into a single
// immutable document and delivers it to one or more sinks.
//
// Build is pure aggregation: it performs no I/O and computes the run duration
// from the two timestamps captured around the whole run. Publish encodes the
// document once and hands the same bytes to every sink, so all outputs of a
// run are identical. FileSink writes through a temporary file and a rename, so
// an observer never sees a partially written report.
package report
