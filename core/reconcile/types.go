package reconcile

import (
	"fmt"
	"sort"

	"backup-validator/core/object"
)

// Status is the replication state of a single source key.
type Status int

const (
	// StatusMatch means dest holds the same size and fingerprint.
	StatusMatch Status = iota + 1
	// StatusMismatch means dest holds the key with different content.
	StatusMismatch
	// StatusMissing means dest does not hold the key.
	StatusMissing
	// StatusLookupError means the dest lookup failed for a reason other than not-found.
	StatusLookupError
)

func (s Status) String() string {
	switch s {
	case StatusMatch:
		return "MATCH"
	case StatusMismatch:
		return "MISMATCH"
	case StatusMissing:
		return "MISSING"
	case StatusLookupError:
		return "LOOKUP_ERROR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status with its report name.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusMatch, StatusMismatch, StatusMissing, StatusLookupError:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid reconcile status %d", int(s))
	}
}

// Record is the classification of one source key. It is never modified
// after Classify creates it.
type Record struct {
	// Key is the object key, identical in source and dest.
	Key string `json:"key"`
	// Status is derived from Source and Dest only.
	Status Status `json:"status"`
	// Source is the descriptor read from the source listing.
	Source object.Descriptor `json:"source"`
	// Dest is the descriptor read from dest; nil unless the key was found.
	Dest *object.Descriptor `json:"dest,omitempty"`
	// Err holds the lookup failure for StatusLookupError.
	Err string `json:"error,omitempty"`
}

// Classify compares a source descriptor with the result of a dest lookup.
// lookupErr must wrap object.ErrNotFound when the key is absent.
func Classify(source object.Descriptor, dest object.Descriptor, lookupErr error) Record {
	rec := Record{Key: source.Key, Source: source}

	switch {
	case lookupErr != nil && isNotFound(lookupErr):
		rec.Status = StatusMissing
	case lookupErr != nil:
		rec.Status = StatusLookupError
		rec.Err = lookupErr.Error()
	default:
		d := dest
		rec.Dest = &d
		// Size is checked independently of the fingerprint: a size difference
		// is a mismatch even if fingerprints happen to collide.
		if source.SameContent(dest) {
			rec.Status = StatusMatch
		} else {
			rec.Status = StatusMismatch
		}
	}

	return rec
}

// Summary provides aggregate counts over a set of records.
type Summary struct {
	// MatchingCount counts StatusMatch records.
	MatchingCount int `json:"matching_count"`
	// MissingCount counts StatusMissing records.
	MissingCount int `json:"missing_count"`
	// MismatchedKeys lists StatusMismatch keys in lexical order.
	MismatchedKeys []string `json:"mismatched_keys"`
	// LookupErrorKeys lists StatusLookupError keys in lexical order.
	LookupErrorKeys []string `json:"lookup_error_keys"`
}

// Total returns the number of source keys the summary covers.
func (s Summary) Total() int {
	return s.MatchingCount + s.MissingCount + len(s.MismatchedKeys) + len(s.LookupErrorKeys)
}

// Summarize derives a Summary from records. The result does not depend on
// the order of records.
func Summarize(records []Record) Summary {
	summary := Summary{
		MismatchedKeys:  []string{},
		LookupErrorKeys: []string{},
	}

	for _, r := range records {
		switch r.Status {
		case StatusMatch:
			summary.MatchingCount++
		case StatusMissing:
			summary.MissingCount++
		case StatusMismatch:
			summary.MismatchedKeys = append(summary.MismatchedKeys, r.Key)
		case StatusLookupError:
			summary.LookupErrorKeys = append(summary.LookupErrorKeys, r.Key)
		}
	}

	sort.Strings(summary.MismatchedKeys)
	sort.Strings(summary.LookupErrorKeys)
	return summary
}

// Result is the output of a full reconciliation.
type Result struct {
	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
	// Records contains one record per source key, sorted by key.
	Records []Record `json:"records"`
}
