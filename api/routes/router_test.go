package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/meridianlabs/lims-backend/internal/ingestion"
	"github.com/meridianlabs/lims-backend/internal/quarantine"
	"github.com/meridianlabs/lims-backend/pkg/config"
	"github.com/meridianlabs/lims-backend/pkg/db/dbtest"
	"github.com/meridianlabs/lims-backend/pkg/enums"
	"github.com/meridianlabs/lims-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubIngest struct{}

func (stubIngest) Ingest(context.Context, []byte, string) (*ingestion.Outcome, error) {
	return &ingestion.Outcome{MessageControlID: "MSG0001", Status: enums.IngestStatusSuccess}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	conn := dbtest.Open(t)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	cfg := &config.Config{
		App: config.AppConfig{Env: "test"},
		HL7: config.HL7Config{SourceLabelMaxLen: 100, MaxPayloadBytes: 1024},
	}
	quarantineService := quarantine.NewService(quarantine.NewRepository(conn), logg)
	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, stubIngest{}, quarantineService, prometheus.NewRegistry())
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-LIMS-Env"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterServesMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterIngestRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hl7/results", strings.NewReader("MSH|..."))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterPropagatesRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
}
