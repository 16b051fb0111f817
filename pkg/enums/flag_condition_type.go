package enums

import "fmt"

// FlagConditionType selects how a flagging rule's condition is evaluated.
type FlagConditionType string

const (
	FlagConditionAbnormalFlag   FlagConditionType = "abnormal_flag"
	FlagConditionAnalytePattern FlagConditionType = "analyte_pattern"
	FlagConditionValueThreshold FlagConditionType = "value_threshold"
)

var validFlagConditionTypes = []FlagConditionType{
	FlagConditionAbnormalFlag,
	FlagConditionAnalytePattern,
	FlagConditionValueThreshold,
}

// IsValid reports whether the value matches the canonical condition type enum.
func (f FlagConditionType) IsValid() bool {
	for _, candidate := range validFlagConditionTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFlagConditionType converts the raw string to FlagConditionType.
func ParseFlagConditionType(value string) (FlagConditionType, error) {
	for _, candidate := range validFlagConditionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid flag condition type %q", value)
}
