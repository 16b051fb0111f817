package flagging

import (
	"context"

	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
)

// RuleSource yields the currently active rule set. The gorm repository and
// the cached wrapper both satisfy it.
type RuleSource interface {
	LatestActive(ctx context.Context) (*models.FlagRuleSet, error)
}

// Repository reads rule sets and writes flag applications.
type Repository interface {
	RuleSource
	WithTx(tx *gorm.DB) Repository
	CreateRuleSet(ctx context.Context, set *models.FlagRuleSet) error
	RecordApplication(ctx context.Context, app *models.FlagApplication) error
	ListApplicationsByResult(ctx context.Context, resultID string) ([]models.FlagApplication, error)
}
