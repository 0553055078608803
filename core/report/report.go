package report

import (
	"encoding/json"
	"time"

	"backup-validator/core/reconcile"
	"backup-validator/core/restore"
)

// DefaultTestName is used when no test name is configured.
const DefaultTestName = "S3 Backup Validation"

// Input holds everything a report is built from.
type Input struct {
	RunID    string
	TestName string
	// Start is captured before listing begins.
	Start time.Time
	// End is captured after verification completes.
	End         time.Time
	Source      string
	Destination string
	TestBucket  string
	Prefix      string
	// Reconciliation must not be nil.
	Reconciliation *reconcile.Result
	// Restore is nil when no restore verification was run.
	Restore []restore.Attempt
}

// Report is the terminal aggregate of a validation run.
type Report struct {
	RunID       string
	TestName    string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Source      string
	Destination string
	TestBucket  string
	Prefix      string
	Summary     reconcile.Summary
	Records     []reconcile.Record
	// Restore is nil when no restore verification was run.
	Restore []restore.Attempt
	Tally   restore.Tally
}

// Build assembles a Report. Duration is End - Start, never negative.
func Build(in Input) *Report {
	// Sub on the raw values uses the monotonic clock when both carry one;
	// UTC() strips it.
	duration := in.End.Sub(in.Start)
	if duration < 0 {
		duration = 0
	}

	name := in.TestName
	if name == "" {
		name = DefaultTestName
	}

	r := &Report{
		RunID:       in.RunID,
		TestName:    name,
		StartTime:   in.Start.UTC(),
		EndTime:     in.End.UTC(),
		Duration:    duration,
		Source:      in.Source,
		Destination: in.Destination,
		TestBucket:  in.TestBucket,
		Prefix:      in.Prefix,
	}

	if in.Reconciliation != nil {
		r.Summary = in.Reconciliation.Summary
		r.Records = in.Reconciliation.Records
	} else {
		r.Summary = reconcile.Summarize(nil)
	}

	if in.Restore != nil {
		r.Restore = in.Restore
		r.Tally = restore.Count(in.Restore)
	}

	return r
}

// HasFindings reports whether the run found anything other than full
// replication and successful restores.
func (r *Report) HasFindings() bool {
	return len(r.Summary.MismatchedKeys) > 0 ||
		r.Summary.MissingCount > 0 ||
		len(r.Summary.LookupErrorKeys) > 0 ||
		r.Tally.Failures() > 0
}

// Document returns the wire representation of the report.
func (r *Report) Document() Document {
	details := make([]KeyDetail, 0, len(r.Records))
	for _, rec := range r.Records {
		details = append(details, KeyDetail{
			Key:    rec.Key,
			Status: rec.Status.String(),
			Error:  rec.Err,
		})
	}

	doc := Document{
		TestName:        r.TestName,
		RunID:           r.RunID,
		StartTime:       r.StartTime.Format(time.RFC3339Nano),
		EndTime:         r.EndTime.Format(time.RFC3339Nano),
		DurationSeconds: r.Duration.Seconds(),
		SourceLocation:  r.Source,
		DestLocation:    r.Destination,
		TestLocation:    r.TestBucket,
		Prefix:          r.Prefix,
		ComparisonResults: ComparisonResults{
			TotalCount:       r.Summary.Total(),
			MatchingCount:    r.Summary.MatchingCount,
			MismatchedKeys:   r.Summary.MismatchedKeys,
			MissingCount:     r.Summary.MissingCount,
			LookupErrorCount: len(r.Summary.LookupErrorKeys),
			LookupErrorKeys:  r.Summary.LookupErrorKeys,
			PerKeyDetails:    details,
		},
	}

	if r.Restore != nil {
		restoreDetails := make([]RestoreDetail, 0, len(r.Restore))
		for _, a := range r.Restore {
			restoreDetails = append(restoreDetails, RestoreDetail{
				Key:                 a.Key,
				Status:              a.Status.String(),
				SourceFingerprint:   a.SourceFingerprint,
				RestoredFingerprint: a.RestoredFingerprint,
				Error:               a.Message,
			})
		}
		doc.RestoreResults = &RestoreResults{
			SampleSize:            len(r.Restore),
			SuccessCount:          r.Tally.Success,
			FailureCount:          r.Tally.Failures(),
			IntegrityFailureCount: r.Tally.IntegrityFailure,
			ErrorCount:            r.Tally.Error,
			PerKeyDetails:         restoreDetails,
		}
	}

	return doc
}

// Encode serializes the report document as indented JSON.
func (r *Report) Encode() ([]byte, error) {
	return json.MarshalIndent(r.Document(), "", "  ")
}
