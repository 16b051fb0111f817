package results

import (
	"github.com/meridianlabs/lims-backend/internal/hl7"
	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// Disposition says what the pipeline did with one observation.
type Disposition string

const (
	DispositionPersisted Disposition = "persisted"
	DispositionCorrected Disposition = "corrected"
	DispositionSkipped   Disposition = "skipped"
)

// ShouldPersist reports whether an observation carries a final value. Only
// final (F) and corrected (C) statuses produce rows; preliminary and other
// interim statuses are acknowledged but never stored.
func ShouldPersist(candidate hl7.ObservationCandidate) bool {
	return enums.ResultStatus(candidate.ResultStatus).IsFinal()
}
