package enums

import "fmt"

// EntrySource records where a test result originated.
type EntrySource string

const (
	EntrySourceHL7    EntrySource = "HL7"
	EntrySourceManual EntrySource = "MANUAL"
	EntrySourceImport EntrySource = "IMPORT"
)

var validEntrySources = []EntrySource{
	EntrySourceHL7,
	EntrySourceManual,
	EntrySourceImport,
}

// IsValid reports whether the value matches the canonical entry source enum.
func (e EntrySource) IsValid() bool {
	for _, candidate := range validEntrySources {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntrySource converts the raw string to EntrySource.
func ParseEntrySource(value string) (EntrySource, error) {
	for _, candidate := range validEntrySources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entry source %q", value)
}
