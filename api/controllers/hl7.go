package controllers

import (
	"context"
	"net/http"

	"github.com/meridianlabs/lims-backend/api/responses"
	"github.com/meridianlabs/lims-backend/api/validators"
	"github.com/meridianlabs/lims-backend/internal/ingestion"
	"github.com/meridianlabs/lims-backend/pkg/config"
	"github.com/meridianlabs/lims-backend/pkg/enums"
	pkgerrors "github.com/meridianlabs/lims-backend/pkg/errors"
	"github.com/meridianlabs/lims-backend/pkg/logger"
)

const sourceLabelHeader = "X-Source-Label"

// IngestService is the slice of the ingestion service the controller needs.
type IngestService interface {
	Ingest(ctx context.Context, payload []byte, sourceLabel string) (*ingestion.Outcome, error)
}

// IngestHL7 accepts one raw HL7 v2 message as the request body and reports
// the terminal outcome: 201 for a fresh ingestion, 409 for a replayed control
// id, 422 when the message was quarantined.
func IngestHL7(cfg config.HL7Config, logg *logger.Logger, svc IngestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload, err := validators.ReadTextBody(r, cfg.MaxPayloadBytes)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sourceLabel := validators.SanitizeString(r.Header.Get(sourceLabelHeader), cfg.SourceLabelMaxLen)

		outcome, err := svc.Ingest(ctx, payload, sourceLabel)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		switch {
		case outcome.Duplicate:
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeConflict, outcome.FailureDetail).WithDetails(outcome))
		case outcome.Status == enums.IngestStatusSuccess:
			responses.WriteSuccessStatus(w, http.StatusCreated, outcome)
		default:
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeQuarantined, outcome.FailureDetail).WithDetails(outcome))
		}
	}
}
