package hl7

import (
	"strings"
	"time"
)

// timestampLayouts are tried longest-first; the raw value is truncated to each
// layout's length until one parses.
var timestampLayouts = []string{
	"20060102150405",
	"200601021504",
	"2006010215",
	"20060102",
}

// ParseTimestamp decodes the HL7 yyyyMMddHHmmss wire format. Values shorter
// than a full timestamp are accepted down to a bare date; anything that still
// fails to parse yields nil rather than an error, because a missing timestamp
// is not fatal for a single observation.
func ParseTimestamp(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	// Fractional seconds and timezone offsets are not carried forward.
	if idx := strings.IndexAny(value, ".+-"); idx >= 0 {
		value = value[:idx]
	}
	if value == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if len(value) < len(layout) {
			continue
		}
		if ts, err := time.Parse(layout, value[:len(layout)]); err == nil {
			return &ts
		}
	}
	return nil
}
