package enums

import (
	"fmt"
	"strings"
)

// Gender is the stored gender on a test order's patient snapshot.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var validGenders = []Gender{
	GenderMale,
	GenderFemale,
	GenderOther,
}

// IsValid reports whether the value matches the canonical gender enum.
func (g Gender) IsValid() bool {
	for _, candidate := range validGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGender converts the raw string to Gender.
func ParseGender(value string) (Gender, error) {
	for _, candidate := range validGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gender %q", value)
}

// GenderFromAdministrativeSex maps the PID-8 administrative sex code onto the
// stored gender enum. The mapping is fixed: M, F and O only.
func GenderFromAdministrativeSex(code string) (Gender, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "M":
		return GenderMale, true
	case "F":
		return GenderFemale, true
	case "O":
		return GenderOther, true
	default:
		return "", false
	}
}
