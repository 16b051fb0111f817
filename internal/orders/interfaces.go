package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
)

// Directory is the read/notify seam onto the order aggregate. The ingestion
// pipeline resolves orders by their filler order number and pokes the
// aggregate after commit; it never decides order status itself.
type Directory interface {
	WithTx(tx *gorm.DB) Directory
	FindOrder(ctx context.Context, orderNumber string) (*models.TestOrder, error)
	NotifyResultsChanged(ctx context.Context, orderNumber string) error
}
