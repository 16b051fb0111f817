package quarantine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/lims-backend/pkg/db/dbtest"
	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/errors"
	"github.com/meridianlabs/lims-backend/pkg/logger"
)

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	return NewService(repo, log), repo
}

func seedEntry(t *testing.T, repo Repository, controlID string) *models.Quarantine {
	t.Helper()
	detail := "OBR[1].universalServiceID: required field is empty"
	entry := &models.Quarantine{
		MessageControlID: controlID,
		Reason:           "validation_failed",
		Detail:           &detail,
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	return entry
}

func TestListOpenReturnsOldestFirst(t *testing.T) {
	svc, repo := newTestService(t)

	first := seedEntry(t, repo, "MSG0001")
	first.QuarantinedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Update(context.Background(), first))
	seedEntry(t, repo, "MSG0002")

	rows, err := svc.ListOpen(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MSG0001", rows[0].MessageControlID)
}

func TestResolveClosesEntry(t *testing.T) {
	svc, repo := newTestService(t)
	entry := seedEntry(t, repo, "MSG0001")

	resolved, err := svc.Resolve(context.Background(), entry.ID, "tech.jones", "order backfilled, message replayed")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "tech.jones", *resolved.ResolvedBy)

	open, err := svc.ListOpen(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestResolveTwiceConflicts(t *testing.T) {
	svc, repo := newTestService(t)
	entry := seedEntry(t, repo, "MSG0001")

	_, err := svc.Resolve(context.Background(), entry.ID, "tech.jones", "")
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), entry.ID, "tech.smith", "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConflict, errors.As(err).Code())
}

func TestResolveRequiresResolver(t *testing.T) {
	svc, repo := newTestService(t)
	entry := seedEntry(t, repo, "MSG0001")

	_, err := svc.Resolve(context.Background(), entry.ID, "  ", "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, errors.As(err).Code())
}

func TestResolveMissingEntryNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Resolve(context.Background(), uuid.New(), "tech.jones", "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.As(err).Code())
}
