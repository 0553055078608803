package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backup-validator/core/database"
	"backup-validator/core/report"

	"gorm.io/gorm"
)

// ErrHistoryDisabled is returned when run history has no database.
var ErrHistoryDisabled = errors.New("run history is disabled")

// Run is the stored summary of one finished validation run.
type Run struct {
	ID                  uint      `gorm:"primaryKey" json:"-"`
	RunID               string    `gorm:"column:run_id;size:36;uniqueIndex" json:"runId"`
	TestName            string    `gorm:"column:test_name;size:255" json:"testName"`
	Source              string    `gorm:"column:source;size:255" json:"sourceLocation"`
	Destination         string    `gorm:"column:destination;size:255" json:"destLocation"`
	TestBucket          string    `gorm:"column:test_bucket;size:255" json:"testLocation,omitempty"`
	Prefix              string    `gorm:"column:prefix;size:1024" json:"prefix"`
	StartTime           time.Time `gorm:"column:start_time;index" json:"startTime"`
	EndTime             time.Time `gorm:"column:end_time" json:"endTime"`
	DurationSeconds     float64   `gorm:"column:duration_seconds" json:"durationSeconds"`
	TotalCount          int       `gorm:"column:total_count" json:"totalCount"`
	MatchingCount       int       `gorm:"column:matching_count" json:"matchingCount"`
	MismatchedCount     int       `gorm:"column:mismatched_count" json:"mismatchedCount"`
	MissingCount        int       `gorm:"column:missing_count" json:"missingCount"`
	LookupErrorCount    int       `gorm:"column:lookup_error_count" json:"lookupErrorCount"`
	RestoreSampleSize   int       `gorm:"column:restore_sample_size" json:"restoreSampleSize"`
	RestoreSuccessCount int       `gorm:"column:restore_success_count" json:"restoreSuccessCount"`
	RestoreFailureCount int       `gorm:"column:restore_failure_count" json:"restoreFailureCount"`
	Result              string    `gorm:"column:result;size:16" json:"result"`
}

// TableName overrides the GORM table name.
func (Run) TableName() string {
	return "validation_runs"
}

// runColumns are the columns Save writes.
var runColumns = []string{
	"id", "run_id", "test_name", "source", "destination", "test_bucket", "prefix",
	"start_time", "end_time", "duration_seconds", "total_count", "matching_count",
	"mismatched_count", "missing_count", "lookup_error_count", "restore_sample_size",
	"restore_success_count", "restore_failure_count", "result",
}

// Result values stored for a run.
const (
	ResultClean    = "clean"
	ResultFindings = "findings"
	ResultFailed   = "failed"
)

// resultOf classifies a finished report.
func resultOf(r *report.Report) string {
	if r.HasFindings() {
		return ResultFindings
	}
	return ResultClean
}

// NewRun flattens a report into its history row.
func NewRun(r *report.Report) Run {
	return Run{
		RunID:               r.RunID,
		TestName:            r.TestName,
		Source:              r.Source,
		Destination:         r.Destination,
		TestBucket:          r.TestBucket,
		Prefix:              r.Prefix,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		DurationSeconds:     r.Duration.Seconds(),
		TotalCount:          r.Summary.Total(),
		MatchingCount:       r.Summary.MatchingCount,
		MismatchedCount:     len(r.Summary.MismatchedKeys),
		MissingCount:        r.Summary.MissingCount,
		LookupErrorCount:    len(r.Summary.LookupErrorKeys),
		RestoreSampleSize:   len(r.Restore),
		RestoreSuccessCount: r.Tally.Success,
		RestoreFailureCount: r.Tally.Failures(),
		Result:              resultOf(r),
	}
}

// History stores run summaries. A History with a nil database is disabled.
type History struct {
	db *gorm.DB
}

// NewHistory wraps db, which may be nil.
func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Enabled reports whether a database is attached.
func (h *History) Enabled() bool {
	return h != nil && h.db != nil
}

// Migrate creates or updates the history table and checks that every column
// Save writes is present.
func (h *History) Migrate() error {
	if !h.Enabled() {
		return ErrHistoryDisabled
	}
	if err := h.db.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", Run{}.TableName(), err)
	}
	missing, err := database.MissingColumns(h.db, Run{}.TableName(), runColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", Run{}.TableName(), strings.Join(missing, ", "))
	}
	return nil
}

// Save stores the summary of r.
func (h *History) Save(ctx context.Context, r *report.Report) error {
	if !h.Enabled() {
		return ErrHistoryDisabled
	}
	run := NewRun(r)
	if err := h.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.RunID, err)
	}
	return nil
}

// List returns up to limit runs, most recent first.
func (h *History) List(ctx context.Context, limit int) ([]Run, error) {
	if !h.Enabled() {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := h.db.WithContext(ctx).Order("start_time DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
