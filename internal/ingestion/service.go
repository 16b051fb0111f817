package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/internal/flagging"
	"github.com/meridianlabs/lims-backend/internal/hl7"
	"github.com/meridianlabs/lims-backend/internal/orders"
	"github.com/meridianlabs/lims-backend/internal/results"
	"github.com/meridianlabs/lims-backend/internal/validation"
	"github.com/meridianlabs/lims-backend/pkg/config"
	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/enums"
	apperrors "github.com/meridianlabs/lims-backend/pkg/errors"
	"github.com/meridianlabs/lims-backend/pkg/logger"
	"github.com/meridianlabs/lims-backend/pkg/metrics"

	quarantinestore "github.com/meridianlabs/lims-backend/internal/quarantine"
)

const fallbackEnteredBy = "HL7"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Params collects the collaborators the ingestion service needs.
type Params struct {
	Tx             txRunner
	Parser         *hl7.Parser
	Repo           Repository
	OrderDir       orders.Directory
	ResultRepo     results.Repository
	QuarantineRepo quarantinestore.Repository
	Flags          *flagging.Engine
	Log            *logger.Logger
	Metrics        *metrics.IngestionMetrics
	HL7            config.HL7Config
}

// Service drives one message through the whole pipeline: archive, parse,
// validate, persist, flag, audit. Everything between the raw archive write
// and the audit finalization happens in a single transaction, so a message
// either lands completely or leaves only its quarantine trail behind.
type Service struct {
	tx             txRunner
	parser         *hl7.Parser
	repo           Repository
	orderDir       orders.Directory
	resultRepo     results.Repository
	quarantineRepo quarantinestore.Repository
	flags          *flagging.Engine
	log            *logger.Logger
	metrics        *metrics.IngestionMetrics
	cfg            config.HL7Config
}

func NewService(p Params) *Service {
	return &Service{
		tx:             p.Tx,
		parser:         p.Parser,
		repo:           p.Repo,
		orderDir:       p.OrderDir,
		resultRepo:     p.ResultRepo,
		quarantineRepo: p.QuarantineRepo,
		flags:          p.Flags,
		log:            p.Log,
		metrics:        p.Metrics,
		cfg:            p.HL7,
	}
}

// Ingest processes one inbound HL7 payload to a terminal outcome. Business
// rejections (quarantine) and replays (duplicate) come back as outcomes with
// a nil error; an error means the infrastructure failed and the delivery
// should be retried.
func (s *Service) Ingest(ctx context.Context, payload []byte, sourceLabel string) (*Outcome, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(time.Since(start)) }()

	outcome := &Outcome{ProcessedAt: start.UTC()}

	meta, ok := s.parser.ExtractMetadata(string(payload))
	if !ok || meta.MessageControlID == "" {
		return s.quarantineUnarchivable(ctx, outcome, meta)
	}
	outcome.MessageControlID = meta.MessageControlID
	ctx = s.log.WithMessageControlID(ctx, meta.MessageControlID)

	var notify []string
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		changed, err := s.process(ctx, tx, payload, sourceLabel, meta, outcome)
		notify = changed
		return err
	})
	if txErr != nil {
		if errors.Is(txErr, ErrDuplicateMessage) {
			outcome.Status = enums.IngestStatusFailed
			outcome.Duplicate = true
			outcome.RawMessageID = nil
			outcome.FailureReason = ReasonDuplicate
			outcome.FailureDetail = fmt.Sprintf("message control id %q already ingested", meta.MessageControlID)
			s.metrics.IncMessage("duplicate")
			s.log.Info(ctx, "duplicate message rejected without reprocessing")
			return outcome, nil
		}
		s.metrics.IncMessage("error")
		return nil, apperrors.Wrap(apperrors.CodeInternal, txErr, "ingesting hl7 message")
	}

	if outcome.Status == enums.IngestStatusSuccess {
		s.metrics.IncMessage("success")
		s.notifyOrders(ctx, notify)
		s.log.Info(ctx, "message ingested")
	} else {
		s.metrics.IncMessage("quarantined")
		s.log.Warn(ctx, fmt.Sprintf("message quarantined: %s", outcome.FailureReason))
	}
	return outcome, nil
}

// process runs the in-transaction portion of the pipeline and returns the
// order numbers whose results changed. Pipeline rejections finalize the audit
// and write the quarantine row, then return nil so the trail commits; only
// infrastructure errors propagate and roll the transaction back.
func (s *Service) process(ctx context.Context, tx *gorm.DB, payload []byte, sourceLabel string, meta *hl7.Metadata, outcome *Outcome) ([]string, error) {
	repo := s.repo.WithTx(tx)

	raw := &models.RawMessage{
		MessageControlID:   meta.MessageControlID,
		SendingApplication: meta.SendingApplication,
		SendingFacility:    meta.SendingFacility,
		SourceLabel:        s.truncateLabel(sourceLabel),
		Payload:            payload,
	}
	if err := repo.CreateRawMessage(ctx, raw); err != nil {
		return nil, err
	}
	outcome.RawMessageID = &raw.ID

	audit := &models.IngestAudit{
		MessageControlID: meta.MessageControlID,
		RawMessageID:     raw.ID,
		Status:           enums.IngestStatusProcessing,
	}
	if err := repo.CreateAudit(ctx, audit); err != nil {
		return nil, err
	}

	fail := func(reason FailureReason, detail string) error {
		errText := fmt.Sprintf("%s: %s", reason, detail)
		if err := repo.FinalizeAudit(ctx, audit.ID, enums.IngestStatusFailed, &errText); err != nil {
			return err
		}
		entry := &models.Quarantine{
			MessageControlID: meta.MessageControlID,
			RawMessageID:     &raw.ID,
			Reason:           string(reason),
			Detail:           &detail,
		}
		if err := s.quarantineRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}
		outcome.Status = enums.IngestStatusFailed
		outcome.FailureReason = reason
		outcome.FailureDetail = detail
		outcome.QuarantineID = &entry.ID
		return nil
	}

	msg, err := s.parser.Parse(string(payload))
	if err != nil {
		reason := ReasonMalformedMessage
		if errors.Is(err, hl7.ErrUnsupportedMessageType) {
			reason = ReasonUnsupportedType
		}
		return nil, fail(reason, err.Error())
	}
	if len(msg.Observations()) == 0 {
		return nil, fail(ReasonNoObservations, "message carries no OBX segments")
	}

	// Validation precedes order resolution. Only the first group's order is
	// looked up beforehand because the patient cross-reference needs it; the
	// validator tolerates a missing snapshot, so structural failures (an empty
	// OBR-3 included) win over unknown-order failures.
	dir := s.orderDir.WithTx(tx)
	ordersByNumber := make(map[string]*models.TestOrder, len(msg.Orders))

	firstNumber := msg.Orders[0].OrderNumber
	if firstNumber != "" {
		order, err := dir.FindOrder(ctx, firstNumber)
		if err != nil {
			return nil, err
		}
		ordersByNumber[firstNumber] = order
	}

	if res := validation.Validate(msg, ordersByNumber[firstNumber]); !res.Valid {
		return nil, fail(ReasonValidationFailed, fmt.Sprintf("%s: %s", res.FieldPath, res.Message))
	}

	for _, group := range msg.Orders {
		if order, seen := ordersByNumber[group.OrderNumber]; seen && order != nil {
			continue
		}
		order, err := dir.FindOrder(ctx, group.OrderNumber)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, fail(ReasonUnknownOrder, fmt.Sprintf("no order with filler order number %q", group.OrderNumber))
		}
		ordersByNumber[group.OrderNumber] = order
	}

	enteredBy := meta.SendingApplication
	if enteredBy == "" {
		enteredBy = fallbackEnteredBy
	}

	resultRepo := s.resultRepo.WithTx(tx)
	var notify []string
	for _, group := range msg.Orders {
		order := ordersByNumber[group.OrderNumber]
		persistedInGroup := 0
		for _, obs := range group.Observations {
			if !results.ShouldPersist(obs) {
				outcome.SkippedCount++
				s.metrics.IncObservation(string(results.DispositionSkipped))
				continue
			}

			stored, created, err := resultRepo.UpsertByAnalyte(ctx, s.buildResult(order, group, obs, meta, enteredBy))
			if err != nil {
				return nil, err
			}
			disposition := results.DispositionPersisted
			if !created {
				disposition = results.DispositionCorrected
			}
			s.metrics.IncObservation(string(disposition))
			outcome.ResultIDs = append(outcome.ResultIDs, stored.ID)
			persistedInGroup++

			applied, flagErr := s.flags.Apply(ctx, tx, stored)
			outcome.FlagCount += len(applied)
			if flagErr != nil {
				s.metrics.IncFlaggingFailure()
				s.log.Error(ctx, "flag evaluation incomplete", flagErr)
			}
		}
		if persistedInGroup > 0 {
			notify = append(notify, group.OrderNumber)
		}
	}

	if err := repo.FinalizeAudit(ctx, audit.ID, enums.IngestStatusSuccess, nil); err != nil {
		return nil, err
	}
	outcome.Status = enums.IngestStatusSuccess
	return notify, nil
}

// quarantineUnarchivable handles payloads that cannot even be archived: no
// MSH segment or an empty message control id. There is no raw row and no
// audit row, only the quarantine entry.
func (s *Service) quarantineUnarchivable(ctx context.Context, outcome *Outcome, meta *hl7.Metadata) (*Outcome, error) {
	controlID := ""
	if meta != nil {
		controlID = meta.MessageControlID
	}
	detail := "MSH segment missing or message control id empty"
	entry := &models.Quarantine{
		MessageControlID: controlID,
		Reason:           string(ReasonMalformedMessage),
		Detail:           &detail,
	}
	if err := s.quarantineRepo.Create(ctx, entry); err != nil {
		s.metrics.IncMessage("error")
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "quarantining unarchivable message")
	}
	outcome.MessageControlID = controlID
	outcome.Status = enums.IngestStatusFailed
	outcome.FailureReason = ReasonMalformedMessage
	outcome.FailureDetail = detail
	outcome.QuarantineID = &entry.ID
	s.metrics.IncMessage("quarantined")
	s.log.Warn(ctx, "unarchivable message quarantined")
	return outcome, nil
}

// notifyOrders pokes the order aggregate after commit. Failures are logged
// and dropped: the results are already durable and the aggregate can catch
// up from the audit trail.
func (s *Service) notifyOrders(ctx context.Context, orderNumbers []string) {
	for _, orderNumber := range orderNumbers {
		if err := s.orderDir.NotifyResultsChanged(ctx, orderNumber); err != nil {
			s.log.Warn(s.log.WithOrderID(ctx, orderNumber), "order notification failed after commit")
		}
	}
}

func (s *Service) buildResult(order *models.TestOrder, group hl7.OrderGroup, obs hl7.ObservationCandidate, meta *hl7.Metadata, enteredBy string) *models.TestResult {
	measuredAt := obs.MeasuredAt
	if measuredAt == nil {
		// OBX-14 is optional; the OBR observation time covers the whole group.
		measuredAt = group.ObservedAt
	}
	record := &models.TestResult{
		OrderID:      order.ID,
		TestCode:     obs.TestCode,
		EntrySource:  enums.EntrySourceHL7,
		AnalyteName:  obs.AnalyteName,
		ValueText:    obs.ValueText,
		AbnormalFlag: obs.AbnormalFlag,
		MeasuredAt:   measuredAt,
		EnteredBy:    enteredBy,
	}
	if obs.Unit != "" {
		unit := obs.Unit
		record.Unit = &unit
	}
	if obs.ReferenceRange != "" {
		rng := obs.ReferenceRange
		record.ReferenceRange = &rng
	}
	controlID := meta.MessageControlID
	record.SourceMessageControlID = &controlID
	return record
}

func (s *Service) truncateLabel(label string) string {
	limit := s.cfg.SourceLabelMaxLen
	if limit <= 0 || len(label) <= limit {
		return label
	}
	return label[:limit]
}
