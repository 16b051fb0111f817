package quarantine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
)

const defaultListLimit = 50

type repository struct {
	db *gorm.DB
}

// NewRepository builds a quarantine repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.Quarantine) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.QuarantinedAt.IsZero() {
		entry.QuarantinedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quarantine, error) {
	var entry models.Quarantine
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindByMessageControlID(ctx context.Context, controlID string) ([]models.Quarantine, error) {
	var rows []models.Quarantine
	err := r.db.WithContext(ctx).
		Where("message_control_id = ?", controlID).
		Order("quarantined_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOpen returns unresolved entries, oldest first so triage works the
// backlog in arrival order.
func (r *repository) ListOpen(ctx context.Context, limit, offset int) ([]models.Quarantine, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	var rows []models.Quarantine
	err := r.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("quarantined_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, entry *models.Quarantine) error {
	return r.db.WithContext(ctx).Save(entry).Error
}
