package enums

import "strings"

// AbnormalFlag is the normalized abnormality marker stored on a test result.
// The empty value means the instrument sent no interpretable flag.
type AbnormalFlag string

const (
	AbnormalFlagHigh     AbnormalFlag = "H"
	AbnormalFlagLow      AbnormalFlag = "L"
	AbnormalFlagNormal   AbnormalFlag = "N"
	AbnormalFlagAbnormal AbnormalFlag = "A"
	AbnormalFlagNone     AbnormalFlag = ""
)

var validAbnormalFlags = []AbnormalFlag{
	AbnormalFlagHigh,
	AbnormalFlagLow,
	AbnormalFlagNormal,
	AbnormalFlagAbnormal,
}

// IsValid reports whether the value is one of the recognized flags.
// The empty "no flag" value is not part of the canonical set.
func (a AbnormalFlag) IsValid() bool {
	for _, candidate := range validAbnormalFlags {
		if candidate == a {
			return true
		}
	}
	return false
}

// AbnormalFlagFromWire maps an OBX-8 abnormal-flag code to the normalized flag.
// Unrecognized or absent codes map to "no flag" rather than failing; instruments
// routinely send vendor-specific codes here.
func AbnormalFlagFromWire(value string) AbnormalFlag {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "H":
		return AbnormalFlagHigh
	case "L":
		return AbnormalFlagLow
	case "N":
		return AbnormalFlagNormal
	case "A":
		return AbnormalFlagAbnormal
	default:
		return AbnormalFlagNone
	}
}
