package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridianlabs/lims-backend/api/controllers"
	"github.com/meridianlabs/lims-backend/api/middleware"
	"github.com/meridianlabs/lims-backend/internal/quarantine"
	"github.com/meridianlabs/lims-backend/pkg/config"
	"github.com/meridianlabs/lims-backend/pkg/logger"
)

// NewRouter assembles the HTTP surface: the HL7 intake endpoint, the
// quarantine triage endpoints, health probes, and the metrics exporter.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	ingestService controllers.IngestService,
	quarantineService *quarantine.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())

		r.Post("/hl7/results", controllers.IngestHL7(cfg.HL7, logg, ingestService))

		r.Route("/quarantine", func(r chi.Router) {
			r.Get("/", controllers.ListQuarantine(logg, quarantineService))
			r.Get("/{id}", controllers.GetQuarantine(logg, quarantineService))
			r.Post("/{id}/resolve", controllers.ResolveQuarantine(logg, quarantineService))
		})
	})

	return r
}
