package models

import (
	"time"

	"github.com/google/uuid"
)

// RawMessage is the immutable record of one inbound HL7 payload. The unique
// index on message_control_id is the idempotency gate: the database, not the
// application, arbitrates concurrent deliveries of the same message.
type RawMessage struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MessageControlID   string    `gorm:"column:message_control_id;not null;uniqueIndex:raw_messages_message_control_id_key"`
	SendingApplication string    `gorm:"column:sending_application;not null"`
	SendingFacility    string    `gorm:"column:sending_facility;not null"`
	SourceLabel        string    `gorm:"column:source_label;not null"`
	Payload            []byte    `gorm:"column:payload;not null"`
	ReceivedAt         time.Time `gorm:"column:received_at;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
}
