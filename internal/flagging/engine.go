package flagging

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/enums"
	"github.com/meridianlabs/lims-backend/pkg/metrics"
)

// Engine evaluates the active rule set against persisted results. Flagging is
// best effort: evaluation problems are aggregated and reported to the caller,
// which records them without failing the ingestion.
type Engine struct {
	rules   RuleSource
	repo    Repository
	metrics *metrics.IngestionMetrics
}

func NewEngine(rules RuleSource, repo Repository, m *metrics.IngestionMetrics) *Engine {
	return &Engine{rules: rules, repo: repo, metrics: m}
}

// Apply evaluates every rule in the active rule set against one result and
// writes a flag application for each match. A result matching N rules gets N
// rows. The rule set version is pinned on each application so historical
// flags stay interpretable after the rules change.
func (e *Engine) Apply(ctx context.Context, tx *gorm.DB, result *models.TestResult) ([]models.FlagApplication, error) {
	set, err := e.rules.LatestActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active rule set: %w", err)
	}
	if set == nil || len(set.Rules) == 0 {
		return nil, nil
	}

	repo := e.repo.WithTx(tx)

	var (
		applied  []models.FlagApplication
		failures error
	)
	for _, rule := range set.Rules {
		matched, err := e.matches(rule, result)
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("rule %s (%s): %w", rule.FlagCode, rule.ConditionType, err))
			continue
		}
		if !matched {
			continue
		}

		app := models.FlagApplication{
			ResultID:       result.ID,
			RuleID:         rule.ID,
			RuleSetVersion: set.Version,
			FlagCode:       rule.FlagCode,
			Severity:       rule.Severity,
			AnalyteName:    result.AnalyteName,
			ValueText:      result.ValueText,
		}
		if err := repo.RecordApplication(ctx, &app); err != nil {
			failures = multierr.Append(failures, fmt.Errorf("recording flag %s: %w", rule.FlagCode, err))
			continue
		}
		e.metrics.IncFlagApplication()
		applied = append(applied, app)
	}
	return applied, failures
}

func (e *Engine) matches(rule models.FlagRule, result *models.TestResult) (bool, error) {
	switch rule.ConditionType {
	case enums.FlagConditionAbnormalFlag:
		if result.AbnormalFlag == enums.AbnormalFlagNone {
			return false, nil
		}
		return strings.EqualFold(string(result.AbnormalFlag), rule.ConditionValue), nil

	case enums.FlagConditionAnalytePattern:
		return strings.Contains(
			strings.ToLower(result.AnalyteName),
			strings.ToLower(rule.ConditionValue),
		), nil

	case enums.FlagConditionValueThreshold:
		threshold, err := decimal.NewFromString(strings.TrimSpace(rule.ConditionValue))
		if err != nil {
			return false, fmt.Errorf("threshold %q is not numeric", rule.ConditionValue)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(result.ValueText))
		if err != nil {
			// Non-numeric values simply never cross a numeric threshold.
			return false, nil
		}
		return value.GreaterThanOrEqual(threshold), nil

	default:
		return false, fmt.Errorf("unknown condition type %q", rule.ConditionType)
	}
}
