package models

import (
	"time"

	"github.com/google/uuid"
)

// FlagRuleSet is one versioned collection of flagging rules. Only the
// most-recently-activated version is live at any time.
type FlagRuleSet struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Version     int        `gorm:"column:version;not null;uniqueIndex:flag_rule_sets_version_key"`
	ActivatedAt *time.Time `gorm:"column:activated_at;index"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`

	Rules []FlagRule `gorm:"foreignKey:RuleSetID"`
}
