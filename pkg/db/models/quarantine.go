package models

import (
	"time"

	"github.com/google/uuid"
)

// Quarantine is the durable record of a rejected message, held for manual
// triage. RawMessageID is nullable because raw persistence itself can fail.
type Quarantine struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	MessageControlID string     `gorm:"column:message_control_id;not null;index"`
	RawMessageID     *uuid.UUID `gorm:"column:raw_message_id;type:uuid"`
	Reason           string     `gorm:"column:reason;not null"`
	Detail           *string    `gorm:"column:detail"`
	QuarantinedAt    time.Time  `gorm:"column:quarantined_at;not null"`
	ResolvedAt       *time.Time `gorm:"column:resolved_at"`
	ResolvedBy       *string    `gorm:"column:resolved_by"`
	ResolutionNote   *string    `gorm:"column:resolution_note"`
}
