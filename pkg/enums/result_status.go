package enums

import "fmt"

// ResultStatus is the OBX-11 observation result status code.
type ResultStatus string

const (
	ResultStatusFinal       ResultStatus = "F"
	ResultStatusCorrected   ResultStatus = "C"
	ResultStatusPreliminary ResultStatus = "P"
	ResultStatusEntered     ResultStatus = "R"
	ResultStatusIncomplete  ResultStatus = "I"
	ResultStatusCannotBe    ResultStatus = "X"
	ResultStatusDeleted     ResultStatus = "D"
)

var validResultStatuses = []ResultStatus{
	ResultStatusFinal,
	ResultStatusCorrected,
	ResultStatusPreliminary,
	ResultStatusEntered,
	ResultStatusIncomplete,
	ResultStatusCannotBe,
	ResultStatusDeleted,
}

// IsValid reports whether the value matches the canonical result status enum.
func (r ResultStatus) IsValid() bool {
	for _, candidate := range validResultStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsFinal reports whether the observation is authoritative and may be persisted.
// Only final and corrected results ever reach the results table.
func (r ResultStatus) IsFinal() bool {
	return r == ResultStatusFinal || r == ResultStatusCorrected
}

// ParseResultStatus converts the raw string to ResultStatus.
func ParseResultStatus(value string) (ResultStatus, error) {
	for _, candidate := range validResultStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid result status %q", value)
}
