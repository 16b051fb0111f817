package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
)

type directory struct {
	db *gorm.DB
}

// NewDirectory builds an order directory bound to the provided DB.
func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) WithTx(tx *gorm.DB) Directory {
	if tx == nil {
		return d
	}
	return &directory{db: tx}
}

// FindOrder resolves an order by its filler order number. Soft-deleted orders
// are excluded by the gorm DeletedAt clause, so a deleted order reads the same
// as a missing one.
func (d *directory) FindOrder(ctx context.Context, orderNumber string) (*models.TestOrder, error) {
	var order models.TestOrder
	err := d.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// NotifyResultsChanged bumps the order's recompute marker. The aggregate's own
// status machinery picks the change up from there.
func (d *directory) NotifyResultsChanged(ctx context.Context, orderNumber string) error {
	now := time.Now().UTC()
	return d.db.WithContext(ctx).
		Model(&models.TestOrder{}).
		Where("order_number = ?", orderNumber).
		Update("results_changed_at", now).Error
}
