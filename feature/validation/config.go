package validation

import (
	"fmt"

	"backup-validator/core/report"
	"backup-validator/core/restore"
)

// Config holds the parameters of a validation run.
type Config struct {
	// TestName labels the run in the report.
	TestName string `mapstructure:"test_name" default:"S3 Backup Validation"`
	// SourceBucket is the primary location.
	SourceBucket string `mapstructure:"source_bucket" default:""`
	// DestinationBucket is the replica location.
	DestinationBucket string `mapstructure:"destination_bucket" default:""`
	// TestBucket receives restored copies. Empty skips restore verification.
	TestBucket string `mapstructure:"test_bucket" default:""`
	// Prefix filters keys in both locations.
	Prefix string `mapstructure:"prefix" default:""`
	// SampleSize is the number of source objects restored.
	SampleSize int `mapstructure:"sample_size" default:"5"`
	// Workers bounds concurrent lookups and restores.
	Workers int `mapstructure:"workers" default:"4"`
	// RestorePrefix namespaces restored copies inside TestBucket.
	RestorePrefix string `mapstructure:"restore_prefix" default:"restore-test/"`
	// ReportFile is the local path of the JSON report (empty disables it).
	ReportFile string `mapstructure:"report_file" default:"s3-backup-validation-report.json"`
	// ReportBucket also uploads the report when set.
	ReportBucket string `mapstructure:"report_bucket" default:""`
	// ReportPrefix is the key prefix of uploaded reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports"`
	// CreateTestBucket creates a missing TestBucket instead of failing.
	CreateTestBucket bool `mapstructure:"create_test_bucket" default:"false"`
}

// ConfigError reports run settings that make a run impossible. It is raised
// before any object is listed or copied.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// RestoreEnabled reports whether the run verifies restores.
func (c Config) RestoreEnabled() bool {
	return c.TestBucket != ""
}

// Validate checks the settings that do not need the object store.
func (c Config) Validate() error {
	switch {
	case c.SourceBucket == "":
		return &ConfigError{Field: "source_bucket", Reason: "is required"}
	case c.DestinationBucket == "":
		return &ConfigError{Field: "destination_bucket", Reason: "is required"}
	case c.SourceBucket == c.DestinationBucket:
		return &ConfigError{Field: "destination_bucket", Reason: "must differ from source_bucket"}
	case c.TestBucket != "" && c.TestBucket == c.SourceBucket:
		return &ConfigError{Field: "test_bucket", Reason: "must differ from source_bucket"}
	case c.SampleSize < 0:
		return &ConfigError{Field: "sample_size", Reason: fmt.Sprintf("must not be negative, got %d", c.SampleSize)}
	case c.Workers < 1:
		return &ConfigError{Field: "workers", Reason: fmt.Sprintf("must be at least 1, got %d", c.Workers)}
	}
	return nil
}

func (c Config) testName() string {
	if c.TestName == "" {
		return report.DefaultTestName
	}
	return c.TestName
}

// restorePrefix is the prefix restored copies are written under and removed from.
func (c Config) restorePrefix() string {
	return restore.NormalizePrefix(c.RestorePrefix)
}

// Overrides are per-run changes applied on top of the configured defaults.
// Nil fields keep the configured value.
type Overrides struct {
	TestName          *string `json:"testName,omitempty"`
	SourceBucket      *string `json:"source,omitempty"`
	DestinationBucket *string `json:"destination,omitempty"`
	TestBucket        *string `json:"testBucket,omitempty"`
	Prefix            *string `json:"prefix,omitempty"`
	SampleSize        *int    `json:"sampleSize,omitempty"`
	Workers           *int    `json:"workers,omitempty"`
}

// Apply returns a copy of base with the set overrides applied.
func (o Overrides) Apply(base Config) Config {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.TestName, o.TestName)
	set(&base.SourceBucket, o.SourceBucket)
	set(&base.DestinationBucket, o.DestinationBucket)
	set(&base.TestBucket, o.TestBucket)
	set(&base.Prefix, o.Prefix)
	if o.SampleSize != nil {
		base.SampleSize = *o.SampleSize
	}
	if o.Workers != nil {
		base.Workers = *o.Workers
	}
	return base
}

// key identifies runs that would produce the same report. It covers every
// field Overrides can change.
func (c Config) key() string {
	return fmt.Sprintf("%q|%q|%q|%q|%q|%d|%d",
		c.testName(), c.SourceBucket, c.DestinationBucket, c.TestBucket, c.Prefix, c.SampleSize, c.Workers)
}
