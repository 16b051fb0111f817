package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/lims-backend/internal/quarantine"
	"github.com/meridianlabs/lims-backend/pkg/db/dbtest"
	"github.com/meridianlabs/lims-backend/pkg/db/models"
)

func newQuarantineRouter(t *testing.T) (http.Handler, quarantine.Repository) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := quarantine.NewRepository(conn)
	svc := quarantine.NewService(repo, testLogger())

	r := chi.NewRouter()
	r.Get("/quarantine", ListQuarantine(testLogger(), svc))
	r.Get("/quarantine/{id}", GetQuarantine(testLogger(), svc))
	r.Post("/quarantine/{id}/resolve", ResolveQuarantine(testLogger(), svc))
	return r, repo
}

func seedQuarantine(t *testing.T, repo quarantine.Repository, controlID string) *models.Quarantine {
	t.Helper()
	detail := "no order with filler order number \"ORD-9\""
	entry := &models.Quarantine{
		MessageControlID: controlID,
		Reason:           "unknown_order",
		Detail:           &detail,
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	return entry
}

func TestListQuarantineReturnsOpenEntries(t *testing.T) {
	router, repo := newQuarantineRouter(t)
	seedQuarantine(t, repo, "MSG0001")
	seedQuarantine(t, repo, "MSG0002")

	req := httptest.NewRequest(http.MethodGet, "/quarantine?limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "MSG0001")
	assert.Contains(t, rec.Body.String(), "MSG0002")
}

func TestListQuarantineRejectsBadLimit(t *testing.T) {
	router, _ := newQuarantineRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/quarantine?limit=nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetQuarantineByID(t *testing.T) {
	router, repo := newQuarantineRouter(t)
	entry := seedQuarantine(t, repo, "MSG0001")

	req := httptest.NewRequest(http.MethodGet, "/quarantine/"+entry.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_order")
}

func TestGetQuarantineUnknownIDReturns404(t *testing.T) {
	router, _ := newQuarantineRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/quarantine/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetQuarantineMalformedIDReturns400(t *testing.T) {
	router, _ := newQuarantineRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/quarantine/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveQuarantine(t *testing.T) {
	router, repo := newQuarantineRouter(t)
	entry := seedQuarantine(t, repo, "MSG0001")

	body := `{"resolved_by":"tech.jones","note":"order backfilled"}`
	req := httptest.NewRequest(http.MethodPost, "/quarantine/"+entry.ID.String()+"/resolve", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tech.jones")

	// Second resolve conflicts.
	req = httptest.NewRequest(http.MethodPost, "/quarantine/"+entry.ID.String()+"/resolve", strings.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResolveQuarantineRequiresResolver(t *testing.T) {
	router, repo := newQuarantineRouter(t)
	entry := seedQuarantine(t, repo, "MSG0001")

	req := httptest.NewRequest(http.MethodPost, "/quarantine/"+entry.ID.String()+"/resolve", strings.NewReader(`{"note":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
