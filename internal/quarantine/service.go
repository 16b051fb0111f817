package quarantine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/errors"
	"github.com/meridianlabs/lims-backend/pkg/logger"
)

// Service exposes the triage surface over quarantined messages.
type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) ListOpen(ctx context.Context, limit, offset int) ([]models.Quarantine, error) {
	rows, err := s.repo.ListOpen(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing open quarantine entries")
	}
	return rows, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Quarantine, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading quarantine entry")
	}
	if entry == nil {
		return nil, errors.New(errors.CodeNotFound, "quarantine entry not found")
	}
	return entry, nil
}

// Resolve closes a quarantine entry. Resolution is terminal: a resolved entry
// cannot be resolved again, and the original reason and detail are untouched.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, resolvedBy, note string) (*models.Quarantine, error) {
	resolvedBy = strings.TrimSpace(resolvedBy)
	if resolvedBy == "" {
		return nil, errors.New(errors.CodeValidation, "resolved_by is required")
	}

	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.ResolvedAt != nil {
		return nil, errors.New(errors.CodeConflict, "quarantine entry is already resolved")
	}

	now := time.Now().UTC()
	entry.ResolvedAt = &now
	entry.ResolvedBy = &resolvedBy
	if note = strings.TrimSpace(note); note != "" {
		entry.ResolutionNote = &note
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "resolving quarantine entry")
	}

	s.log.Info(s.log.WithMessageControlID(ctx, entry.MessageControlID), "quarantine entry resolved")
	return entry, nil
}
