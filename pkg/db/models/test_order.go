package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// TestOrder is the order aggregate's read model as this pipeline sees it:
// the filler order number (join key from OBR-3) plus the patient snapshot
// the validator cross-references.
type TestOrder struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber      string         `gorm:"column:order_number;not null;uniqueIndex:test_orders_order_number_key"`
	MedicalRecordID  string         `gorm:"column:medical_record_id;not null"`
	PatientLastName  string         `gorm:"column:patient_last_name;not null"`
	PatientFirstName string         `gorm:"column:patient_first_name;not null"`
	PatientDOB       time.Time      `gorm:"column:patient_dob;not null"`
	Gender           enums.Gender   `gorm:"column:gender;not null"`
	ResultsChangedAt *time.Time     `gorm:"column:results_changed_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
