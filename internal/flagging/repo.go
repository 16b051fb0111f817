package flagging

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

// NewRepository builds a flagging repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// LatestActive returns the most recently activated rule set with its rules
// preloaded, or (nil, nil) when no rule set has been activated yet.
func (r *repository) LatestActive(ctx context.Context) (*models.FlagRuleSet, error) {
	var set models.FlagRuleSet
	err := r.db.WithContext(ctx).
		Preload("Rules").
		Where("activated_at IS NOT NULL").
		Order("activated_at DESC").
		First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &set, nil
}

func (r *repository) CreateRuleSet(ctx context.Context, set *models.FlagRuleSet) error {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	for i := range set.Rules {
		if set.Rules[i].ID == uuid.Nil {
			set.Rules[i].ID = uuid.New()
		}
		set.Rules[i].RuleSetID = set.ID
	}
	return r.db.WithContext(ctx).Create(set).Error
}

func (r *repository) RecordApplication(ctx context.Context, app *models.FlagApplication) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) ListApplicationsByResult(ctx context.Context, resultID string) ([]models.FlagApplication, error) {
	var rows []models.FlagApplication
	err := r.db.WithContext(ctx).
		Where("result_id = ?", resultID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
