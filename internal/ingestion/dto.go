package ingestion

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// Outcome is the terminal report for one ingestion attempt. Business failures
// (quarantine, duplicate) are outcomes, not errors; Ingest only returns an
// error when the infrastructure itself failed.
type Outcome struct {
	MessageControlID string             `json:"message_control_id"`
	Status           enums.IngestStatus `json:"status"`
	Duplicate        bool               `json:"duplicate,omitempty"`
	RawMessageID     *uuid.UUID         `json:"raw_message_id,omitempty"`
	ResultIDs        []uuid.UUID        `json:"result_ids,omitempty"`
	SkippedCount     int                `json:"skipped_count"`
	FlagCount        int                `json:"flag_count"`
	QuarantineID     *uuid.UUID         `json:"quarantine_id,omitempty"`
	FailureReason    FailureReason      `json:"failure_reason,omitempty"`
	FailureDetail    string             `json:"failure_detail,omitempty"`
	ProcessedAt      time.Time          `json:"processed_at"`
}
