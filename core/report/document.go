package report

// Document is the persisted form of a validation report.
type Document struct {
	TestName          string            `json:"testName"`
	RunID             string            `json:"runId"`
	StartTime         string            `json:"startTime"`
	EndTime           string            `json:"endTime"`
	DurationSeconds   float64           `json:"durationSeconds"`
	SourceLocation    string            `json:"sourceLocation"`
	DestLocation      string            `json:"destLocation"`
	TestLocation      string            `json:"testLocation,omitempty"`
	Prefix            string            `json:"prefix"`
	ComparisonResults ComparisonResults `json:"comparisonResults"`
	// RestoreResults is null when no test location was configured.
	RestoreResults *RestoreResults `json:"restoreResults"`
}

// ComparisonResults is the reconciliation section of a Document.
type ComparisonResults struct {
	TotalCount       int         `json:"totalCount"`
	MatchingCount    int         `json:"matchingCount"`
	MismatchedKeys   []string    `json:"mismatchedKeys"`
	MissingCount     int         `json:"missingCount"`
	LookupErrorCount int         `json:"lookupErrorCount"`
	LookupErrorKeys  []string    `json:"lookupErrorKeys"`
	PerKeyDetails    []KeyDetail `json:"perKeyDetails"`
}

// KeyDetail is the reconciliation outcome of one key.
type KeyDetail struct {
	Key    string `json:"key"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RestoreResults is the restore verification section of a Document.
type RestoreResults struct {
	SampleSize            int             `json:"sampleSize"`
	SuccessCount          int             `json:"successCount"`
	FailureCount          int             `json:"failureCount"`
	IntegrityFailureCount int             `json:"integrityFailureCount"`
	ErrorCount            int             `json:"errorCount"`
	PerKeyDetails         []RestoreDetail `json:"perKeyDetails"`
}

// RestoreDetail is the restore outcome of one key.
type RestoreDetail struct {
	Key                 string `json:"key"`
	Status              string `json:"status"`
	SourceFingerprint   string `json:"sourceFingerprint,omitempty"`
	RestoredFingerprint string `json:"restoredFingerprint,omitempty"`
	Error               string `json:"error,omitempty"`
}
