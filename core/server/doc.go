// Package server holds the HTTP server configuration.
//
// The serve command uses these settings to bind the API, protect it with an
// API key, and optionally trigger validation runs on a cron schedule.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, and the schedule of periodic runs.
package server
