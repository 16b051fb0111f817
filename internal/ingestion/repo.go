package ingestion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db"
	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/enums"
)

const rawMessageControlIDConstraint = "raw_messages_message_control_id_key"

type repository struct {
	db *gorm.DB
}

// NewRepository builds an ingestion repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreateRawMessage archives the payload. The unique index on
// message_control_id arbitrates replays: a violation surfaces as
// ErrDuplicateMessage and the caller treats the delivery as already handled.
func (r *repository) CreateRawMessage(ctx context.Context, raw *models.RawMessage) error {
	if raw.ID == uuid.Nil {
		raw.ID = uuid.New()
	}
	if raw.ReceivedAt.IsZero() {
		raw.ReceivedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(raw).Error; err != nil {
		if db.IsUniqueViolation(err, rawMessageControlIDConstraint) {
			return ErrDuplicateMessage
		}
		return err
	}
	return nil
}

func (r *repository) FindRawMessage(ctx context.Context, controlID string) (*models.RawMessage, error) {
	var raw models.RawMessage
	err := r.db.WithContext(ctx).
		Where("message_control_id = ?", controlID).
		First(&raw).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &raw, nil
}

func (r *repository) CreateAudit(ctx context.Context, audit *models.IngestAudit) error {
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.Status == "" {
		audit.Status = enums.IngestStatusProcessing
	}
	return r.db.WithContext(ctx).Create(audit).Error
}

func (r *repository) FinalizeAudit(ctx context.Context, auditID uuid.UUID, status enums.IngestStatus, errorText *string) error {
	return r.db.WithContext(ctx).
		Model(&models.IngestAudit{}).
		Where("id = ?", auditID).
		Updates(map[string]any{
			"status":     status,
			"error_text": errorText,
		}).Error
}

func (r *repository) ListAudits(ctx context.Context, controlID string) ([]models.IngestAudit, error) {
	var rows []models.IngestAudit
	err := r.db.WithContext(ctx).
		Where("message_control_id = ?", controlID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
