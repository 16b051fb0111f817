package flagging

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

func seedRuleSet(t *testing.T, conn *gorm.DB, version int, activatedAt time.Time, rules ...models.FlagRule) *models.FlagRuleSet {
	t.Helper()
	set := &models.FlagRuleSet{
		Version:     version,
		ActivatedAt: &activatedAt,
		Rules:       rules,
	}
	require.NoError(t, NewRepository(conn).CreateRuleSet(context.Background(), set))
	return set
}

func persistedResult(t *testing.T, conn *gorm.DB, analyte, value string, flag enums.AbnormalFlag) *models.TestResult {
	t.Helper()
	result := &models.TestResult{
		ID:           uuid.New(),
		OrderID:      uuid.New(),
		TestCode:     "GLU",
		EntrySource:  enums.EntrySourceHL7,
		AnalyteName:  analyte,
		ValueText:    value,
		AbnormalFlag: flag,
		EnteredBy:    "ANALYZER7",
	}
	require.NoError(t, conn.Create(result).Error)
	return result
}

func TestApplyWritesOneRowPerMatchingRule(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	seedRuleSet(t, conn, 3, time.Now().UTC(),
		models.FlagRule{
			FlagCode:       "ABN_HIGH",
			Severity:       enums.FlagSeverityWarning,
			ConditionType:  enums.FlagConditionAbnormalFlag,
			ConditionValue: "H",
		},
		models.FlagRule{
			FlagCode:       "GLU_CRIT",
			Severity:       enums.FlagSeverityCritical,
			ConditionType:  enums.FlagConditionValueThreshold,
			ConditionValue: "100",
		},
	)
	result := persistedResult(t, conn, "Glucose", "150", enums.AbnormalFlagHigh)

	engine := NewEngine(repo, repo, nil)
	applied, err := engine.Apply(context.Background(), conn, result)
	require.NoError(t, err)
	require.Len(t, applied, 2, "both matching rules must flag independently")

	rows, err := repo.ListApplicationsByResult(context.Background(), result.ID.String())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 3, row.RuleSetVersion)
		assert.Equal(t, "Glucose", row.AnalyteName)
		assert.Equal(t, "150", row.ValueText)
	}
}

func TestApplyNoMatchWritesNothing(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	seedRuleSet(t, conn, 1, time.Now().UTC(),
		models.FlagRule{
			FlagCode:       "ABN_LOW",
			Severity:       enums.FlagSeverityInfo,
			ConditionType:  enums.FlagConditionAbnormalFlag,
			ConditionValue: "L",
		},
	)
	result := persistedResult(t, conn, "Glucose", "92", enums.AbnormalFlagNone)

	engine := NewEngine(repo, repo, nil)
	applied, err := engine.Apply(context.Background(), conn, result)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestApplyNonNumericValueNeverCrossesThreshold(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	seedRuleSet(t, conn, 1, time.Now().UTC(),
		models.FlagRule{
			FlagCode:       "GLU_CRIT",
			Severity:       enums.FlagSeverityCritical,
			ConditionType:  enums.FlagConditionValueThreshold,
			ConditionValue: "100",
		},
	)
	result := persistedResult(t, conn, "Culture", "POSITIVE", enums.AbnormalFlagNone)

	engine := NewEngine(repo, repo, nil)
	applied, err := engine.Apply(context.Background(), conn, result)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestApplyMalformedRuleReportsButContinues(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	seedRuleSet(t, conn, 1, time.Now().UTC(),
		models.FlagRule{
			FlagCode:       "BROKEN",
			Severity:       enums.FlagSeverityInfo,
			ConditionType:  enums.FlagConditionValueThreshold,
			ConditionValue: "not-a-number",
		},
		models.FlagRule{
			FlagCode:       "ABN_HIGH",
			Severity:       enums.FlagSeverityWarning,
			ConditionType:  enums.FlagConditionAbnormalFlag,
			ConditionValue: "H",
		},
	)
	result := persistedResult(t, conn, "Glucose", "150", enums.AbnormalFlagHigh)

	engine := NewEngine(repo, repo, nil)
	applied, err := engine.Apply(context.Background(), conn, result)
	require.Error(t, err, "the broken rule must surface in the aggregate error")
	require.Len(t, applied, 1, "healthy rules still evaluate")
	assert.Equal(t, "ABN_HIGH", applied[0].FlagCode)
}

func TestApplyUsesLatestActivatedRuleSet(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	seedRuleSet(t, conn, 1, time.Now().UTC().Add(-time.Hour),
		models.FlagRule{
			FlagCode:       "OLD_RULE",
			Severity:       enums.FlagSeverityInfo,
			ConditionType:  enums.FlagConditionAnalytePattern,
			ConditionValue: "glucose",
		},
	)
	seedRuleSet(t, conn, 2, time.Now().UTC(),
		models.FlagRule{
			FlagCode:       "NEW_RULE",
			Severity:       enums.FlagSeverityInfo,
			ConditionType:  enums.FlagConditionAnalytePattern,
			ConditionValue: "glucose",
		},
	)
	result := persistedResult(t, conn, "Glucose", "92", enums.AbnormalFlagNone)

	engine := NewEngine(repo, repo, nil)
	applied, err := engine.Apply(context.Background(), conn, result)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "NEW_RULE", applied[0].FlagCode)
	assert.Equal(t, 2, applied[0].RuleSetVersion)
}

func TestApplyWithoutActiveRuleSetIsNoOp(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	result := persistedResult(t, conn, "Glucose", "92", enums.AbnormalFlagNone)

	engine := NewEngine(repo, repo, nil)
	applied, err := engine.Apply(context.Background(), conn, result)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestCachedRuleSourceWithoutRedisDelegates(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	seedRuleSet(t, conn, 1, time.Now().UTC(),
		models.FlagRule{
			FlagCode:       "ABN_HIGH",
			Severity:       enums.FlagSeverityWarning,
			ConditionType:  enums.FlagConditionAbnormalFlag,
			ConditionValue: "H",
		},
	)

	source := NewCachedRuleSource(repo, nil, time.Minute, nil)
	set, err := source.LatestActive(context.Background())
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, 1, set.Version)
	require.NoError(t, source.Invalidate(context.Background()))
}
