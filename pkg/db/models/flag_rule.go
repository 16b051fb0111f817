package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// FlagRule is a single declarative predicate within a rule set. The
// interpretation of ConditionValue depends on ConditionType: a flag code for
// abnormal_flag, a substring for analyte_pattern, a decimal string for
// value_threshold.
type FlagRule struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	RuleSetID      uuid.UUID               `gorm:"column:rule_set_id;type:uuid;not null;index"`
	FlagCode       string                  `gorm:"column:flag_code;not null"`
	Severity       enums.FlagSeverity      `gorm:"column:severity;not null"`
	ConditionType  enums.FlagConditionType `gorm:"column:condition_type;not null"`
	ConditionValue string                  `gorm:"column:condition_value;not null"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
}
