package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbnormalFlagFromWire(t *testing.T) {
	assert.Equal(t, AbnormalFlagHigh, AbnormalFlagFromWire("H"))
	assert.Equal(t, AbnormalFlagLow, AbnormalFlagFromWire(" l "))
	assert.Equal(t, AbnormalFlagNormal, AbnormalFlagFromWire("n"))
	assert.Equal(t, AbnormalFlagAbnormal, AbnormalFlagFromWire("A"))
	assert.Equal(t, AbnormalFlagNone, AbnormalFlagFromWire("HH"))
	assert.Equal(t, AbnormalFlagNone, AbnormalFlagFromWire(""))
}

func TestResultStatusIsFinal(t *testing.T) {
	assert.True(t, ResultStatusFinal.IsFinal())
	assert.True(t, ResultStatusCorrected.IsFinal())
	for _, status := range []ResultStatus{ResultStatusPreliminary, ResultStatusEntered, ResultStatusIncomplete, ResultStatusCannotBe, ResultStatusDeleted} {
		assert.False(t, status.IsFinal(), "status %s must not be final", status)
	}
}

func TestGenderFromAdministrativeSex(t *testing.T) {
	got, ok := GenderFromAdministrativeSex("m")
	assert.True(t, ok)
	assert.Equal(t, GenderMale, got)

	_, ok = GenderFromAdministrativeSex("U")
	assert.False(t, ok)
}

func TestParseIngestStatus(t *testing.T) {
	status, err := ParseIngestStatus("SUCCESS")
	assert.NoError(t, err)
	assert.Equal(t, IngestStatusSuccess, status)
	assert.True(t, status.IsTerminal())

	_, err = ParseIngestStatus("success")
	assert.Error(t, err)
}
