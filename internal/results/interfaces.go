package results

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
)

// Repository persists normalized test results. UpsertByAnalyte is the only
// write path the ingestion pipeline uses: one logical result per
// (order, analyte), corrections overwrite in place.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertByAnalyte(ctx context.Context, result *models.TestResult) (*models.TestResult, bool, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.TestResult, error)
}
