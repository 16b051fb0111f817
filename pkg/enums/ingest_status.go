package enums

import "fmt"

// IngestStatus tracks the lifecycle of one ingestion attempt in ingest_audits.
type IngestStatus string

const (
	IngestStatusProcessing IngestStatus = "PROCESSING"
	IngestStatusSuccess    IngestStatus = "SUCCESS"
	IngestStatusFailed     IngestStatus = "FAILED"
)

var validIngestStatuses = []IngestStatus{
	IngestStatusProcessing,
	IngestStatusSuccess,
	IngestStatusFailed,
}

// IsValid reports whether the value matches the canonical ingest status enum.
func (s IngestStatus) IsValid() bool {
	for _, candidate := range validIngestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the attempt.
func (s IngestStatus) IsTerminal() bool {
	return s == IngestStatusSuccess || s == IngestStatusFailed
}

// ParseIngestStatus converts the raw string to IngestStatus.
func ParseIngestStatus(value string) (IngestStatus, error) {
	for _, candidate := range validIngestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingest status %q", value)
}
