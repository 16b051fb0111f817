package ingestion

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// Repository owns the raw-message archive and the ingest audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRawMessage(ctx context.Context, raw *models.RawMessage) error
	FindRawMessage(ctx context.Context, controlID string) (*models.RawMessage, error)
	CreateAudit(ctx context.Context, audit *models.IngestAudit) error
	FinalizeAudit(ctx context.Context, auditID uuid.UUID, status enums.IngestStatus, errorText *string) error
	ListAudits(ctx context.Context, controlID string) ([]models.IngestAudit, error)
}
