package enums

import "fmt"

// FlagSeverity grades a rule match on a test result.
type FlagSeverity string

const (
	FlagSeverityInfo     FlagSeverity = "info"
	FlagSeverityWarning  FlagSeverity = "warning"
	FlagSeverityCritical FlagSeverity = "critical"
)

var validFlagSeverities = []FlagSeverity{
	FlagSeverityInfo,
	FlagSeverityWarning,
	FlagSeverityCritical,
}

// IsValid reports whether the value matches the canonical severity enum.
func (f FlagSeverity) IsValid() bool {
	for _, candidate := range validFlagSeverities {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFlagSeverity converts the raw string to FlagSeverity.
func ParseFlagSeverity(value string) (FlagSeverity, error) {
	for _, candidate := range validFlagSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid flag severity %q", value)
}
