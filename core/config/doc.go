// Package config provides configuration management for the Backup Validator.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Storage: S3/MinIO endpoint, credentials and listing retry budget
//   - Validation: buckets, prefix, sample size, workers and report outputs of a run
//   - Server: HTTP API settings and the cron schedule of periodic runs
//   - Database: optional run history database
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Validation.SourceBucket)
package config
