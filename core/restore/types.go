package restore

import "fmt"

// DefaultPrefix is the segment under which restored copies are written.
const DefaultPrefix = "restore-test/"

// Status is the outcome of a single restore attempt.
type Status int

const (
	// StatusSuccess means the copy carries the same content as the original.
	StatusSuccess Status = iota + 1
	// StatusIntegrityFailure means the copy succeeded but its content differs.
	StatusIntegrityFailure
	// StatusError means the copy or a verification lookup failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusIntegrityFailure:
		return "INTEGRITY_FAILURE"
	case StatusError:
		return "ERROR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status with its report name.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusSuccess, StatusIntegrityFailure, StatusError:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid restore status %d", int(s))
	}
}

// Attempt is the result of restoring one key.
type Attempt struct {
	Key    string `json:"key"`
	Status Status `json:"status"`
	// Message holds the underlying error for StatusError.
	Message string `json:"message,omitempty"`
	// SourceFingerprint is the fingerprint of the original after the copy.
	SourceFingerprint string `json:"source_fingerprint,omitempty"`
	// RestoredFingerprint is empty on StatusError.
	RestoredFingerprint string `json:"restored_fingerprint,omitempty"`
}

// Tally counts attempts per status.
type Tally struct {
	Success          int
	IntegrityFailure int
	Error            int
}

// Failures returns the number of attempts that did not succeed.
func (t Tally) Failures() int {
	return t.IntegrityFailure + t.Error
}

// Count tallies attempts.
func Count(attempts []Attempt) Tally {
	var t Tally
	for _, a := range attempts {
		switch a.Status {
		case StatusSuccess:
			t.Success++
		case StatusIntegrityFailure:
			t.IntegrityFailure++
		case StatusError:
			t.Error++
		}
	}
	return t
}
