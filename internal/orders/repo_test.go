package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/dbtest"
	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/enums"
)

func seedOrder(t *testing.T, conn *gorm.DB, orderNumber string) *models.TestOrder {
	t.Helper()
	order := &models.TestOrder{
		ID:               uuid.New(),
		OrderNumber:      orderNumber,
		MedicalRecordID:  "MRN-1234",
		PatientLastName:  "DOE",
		PatientFirstName: "JANE",
		PatientDOB:       time.Date(1985, 2, 14, 0, 0, 0, 0, time.UTC),
		Gender:           enums.GenderFemale,
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestFindOrder(t *testing.T) {
	conn := dbtest.Open(t)
	dir := NewDirectory(conn)
	seeded := seedOrder(t, conn, "ORD-1")

	found, err := dir.FindOrder(context.Background(), "ORD-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, "MRN-1234", found.MedicalRecordID)
}

func TestFindOrderMissingReturnsNil(t *testing.T) {
	conn := dbtest.Open(t)
	dir := NewDirectory(conn)

	found, err := dir.FindOrder(context.Background(), "ORD-404")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindOrderExcludesSoftDeleted(t *testing.T) {
	conn := dbtest.Open(t)
	dir := NewDirectory(conn)
	seeded := seedOrder(t, conn, "ORD-2")

	require.NoError(t, conn.Delete(&models.TestOrder{}, "id = ?", seeded.ID).Error)

	found, err := dir.FindOrder(context.Background(), "ORD-2")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestNotifyResultsChangedBumpsMarker(t *testing.T) {
	conn := dbtest.Open(t)
	dir := NewDirectory(conn)
	seeded := seedOrder(t, conn, "ORD-3")
	require.Nil(t, seeded.ResultsChangedAt)

	require.NoError(t, dir.NotifyResultsChanged(context.Background(), "ORD-3"))

	var reloaded models.TestOrder
	require.NoError(t, conn.First(&reloaded, "id = ?", seeded.ID).Error)
	assert.NotNil(t, reloaded.ResultsChangedAt)
}
