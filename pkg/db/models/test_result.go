package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// TestResult is one normalized analyte observation belonging to an order.
// Uniqueness per (order_id, lower(analyte_name)) is logical: a second final
// observation for the same analyte overwrites the existing row.
type TestResult struct {
	ID                     uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OrderID                uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	TestCode               string             `gorm:"column:test_code;not null"`
	EntrySource            enums.EntrySource  `gorm:"column:entry_source;not null"`
	AnalyteName            string             `gorm:"column:analyte_name;not null"`
	ValueText              string             `gorm:"column:value_text;not null"`
	Unit                   *string            `gorm:"column:unit"`
	ReferenceRange         *string            `gorm:"column:reference_range"`
	AbnormalFlag           enums.AbnormalFlag `gorm:"column:abnormal_flag;not null;default:''"`
	MeasuredAt             *time.Time         `gorm:"column:measured_at"`
	SourceMessageControlID *string            `gorm:"column:source_message_control_id"`
	EnteredBy              string             `gorm:"column:entered_by;not null"`
	CreatedAt              time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
