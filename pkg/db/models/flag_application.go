package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// FlagApplication is the append-only record of one rule matching one result.
// AnalyteName and ValueText snapshot the result at evaluation time, and
// RuleSetVersion is pinned so historical flags stay interpretable after the
// rule set is superseded.
type FlagApplication struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ResultID       uuid.UUID          `gorm:"column:result_id;type:uuid;not null;index"`
	RuleID         uuid.UUID          `gorm:"column:rule_id;type:uuid;not null"`
	RuleSetVersion int                `gorm:"column:rule_set_version;not null"`
	FlagCode       string             `gorm:"column:flag_code;not null"`
	Severity       enums.FlagSeverity `gorm:"column:severity;not null"`
	AnalyteName    string             `gorm:"column:analyte_name;not null"`
	ValueText      string             `gorm:"column:value_text;not null"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
}
