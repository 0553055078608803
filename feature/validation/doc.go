// Package validation orchestrates a backup validation run.
//
// A run validates its settings, checks that every bucket is reachable,
// reconciles the source against the destination, restores a sample of source
// objects into a test bucket, builds the report and hands it to the configured
// sinks. Finished runs are optionally recorded in the validation_runs table.
//
// # Errors
//
// Invalid settings surface as *ConfigError before any object is listed.
// Incomplete listings abort the run. Everything else is a per-key finding in
// the report.
//
// # HTTP
//
// The feature exposes POST /validation/run, GET /validation/latest and
// GET /validation/history when loaded by the serve command.
package validation
