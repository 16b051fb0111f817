package results

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a result repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// UpsertByAnalyte stores a final observation. The analyte lookup is
// case-insensitive: "Glucose" and "GLUCOSE" are the same logical result.
// When a row already exists its ID and CreatedAt survive and every clinical
// field is overwritten, so a correction leaves exactly one row behind.
// The returned bool is true when a new row was inserted.
func (r *repository) UpsertByAnalyte(ctx context.Context, result *models.TestResult) (*models.TestResult, bool, error) {
	var existing models.TestResult
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND LOWER(analyte_name) = LOWER(?)", result.OrderID, result.AnalyteName).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		if result.ID == uuid.Nil {
			result.ID = uuid.New()
		}
		if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
			return nil, false, err
		}
		return result, true, nil
	}

	existing.TestCode = result.TestCode
	existing.EntrySource = result.EntrySource
	existing.AnalyteName = result.AnalyteName
	existing.ValueText = result.ValueText
	existing.Unit = result.Unit
	existing.ReferenceRange = result.ReferenceRange
	existing.AbnormalFlag = result.AbnormalFlag
	existing.MeasuredAt = result.MeasuredAt
	existing.SourceMessageControlID = result.SourceMessageControlID
	existing.EnteredBy = result.EnteredBy
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.TestResult, error) {
	var rows []models.TestResult
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("analyte_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
