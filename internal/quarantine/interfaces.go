package quarantine

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
)

// Repository stores quarantined messages for manual triage.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.Quarantine) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quarantine, error)
	FindByMessageControlID(ctx context.Context, controlID string) ([]models.Quarantine, error)
	ListOpen(ctx context.Context, limit, offset int) ([]models.Quarantine, error)
	Update(ctx context.Context, entry *models.Quarantine) error
}
