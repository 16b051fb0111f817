package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// IngestAudit records one ingestion attempt. Created in PROCESSING state and
// moved exactly once to SUCCESS or FAILED. RetryCount is reserved for an
// operator-driven replay path; the normal pipeline never re-attempts a message.
type IngestAudit struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	MessageControlID string             `gorm:"column:message_control_id;not null;index"`
	RawMessageID     uuid.UUID          `gorm:"column:raw_message_id;type:uuid;not null"`
	Status           enums.IngestStatus `gorm:"column:status;not null"`
	ErrorText        *string            `gorm:"column:error_text"`
	RetryCount       int                `gorm:"column:retry_count;not null;default:0"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
