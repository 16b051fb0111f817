package ingestion

import "errors"

// FailureReason classifies why a message was quarantined. The value is stored
// verbatim on the quarantine row so triage can filter by it.
type FailureReason string

const (
	ReasonMalformedMessage FailureReason = "malformed_message"
	ReasonUnsupportedType  FailureReason = "unsupported_message_type"
	ReasonValidationFailed FailureReason = "validation_failed"
	ReasonUnknownOrder     FailureReason = "unknown_order"
	ReasonNoObservations   FailureReason = "no_observations"
	ReasonDuplicate        FailureReason = "duplicate_message"
)

// ErrDuplicateMessage marks a replayed message control id. Raised by the
// database's unique constraint, never by an application-level existence check.
var ErrDuplicateMessage = errors.New("message control id already ingested")
