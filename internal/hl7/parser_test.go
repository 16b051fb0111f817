package hl7

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

const sampleORU = "MSH|^~\\&|ANALYZER7|MAINLAB|LIMS|CENTRAL|20240115093000||ORU^R01|MSG0001|P|2.5\r" +
	"PID|1||MRN-1234^^^HOSP^MR||DOE^JANE||19850214|F\r" +
	"OBR|1|PLACER-1|ORD-1|CBC^Complete Blood Count|||20240115091500\r" +
	"OBX|1|NM|GLU^Glucose||92|mg/dL|70-110|N|||F|||20240115091500\r" +
	"OBX|2|NM|HGB^Hemoglobin||13.5|g/dL|12-16|N|||F|||20240115091500\r"

func TestExtractMetadata(t *testing.T) {
	p := NewParser("TMP")

	meta, ok := p.ExtractMetadata(sampleORU)
	require.True(t, ok)
	assert.Equal(t, "MSG0001", meta.MessageControlID)
	assert.Equal(t, "ANALYZER7", meta.SendingApplication)
	assert.Equal(t, "MAINLAB", meta.SendingFacility)
}

func TestExtractMetadataNoMSH(t *testing.T) {
	p := NewParser("TMP")

	_, ok := p.ExtractMetadata("PID|1||MRN-1\r")
	assert.False(t, ok)

	_, ok = p.ExtractMetadata("")
	assert.False(t, ok)
}

func TestParseFullMessage(t *testing.T) {
	p := NewParser("TMP")

	msg, err := p.Parse(sampleORU)
	require.NoError(t, err)

	assert.Equal(t, "MSG0001", msg.Header.MessageControlID)
	assert.Equal(t, "ORU^R01", msg.Header.MessageType)
	assert.Equal(t, "2.5", msg.Header.Version)
	require.NotNil(t, msg.Header.Timestamp)

	assert.Equal(t, "MRN-1234", msg.Patient.Identifier)
	assert.Equal(t, "DOE", msg.Patient.LastName)
	assert.Equal(t, "JANE", msg.Patient.FirstName)
	assert.Equal(t, "F", msg.Patient.AdministrativeSex)
	require.NotNil(t, msg.Patient.DateOfBirth)
	assert.Equal(t, time.Date(1985, 2, 14, 0, 0, 0, 0, time.UTC), *msg.Patient.DateOfBirth)

	require.Len(t, msg.Orders, 1)
	group := msg.Orders[0]
	assert.Equal(t, "ORD-1", group.OrderNumber)
	assert.Equal(t, "CBC", group.ServiceID)
	require.Len(t, group.Observations, 2)

	obs := group.Observations[0]
	assert.Equal(t, "ORD-1", obs.OrderNumber)
	assert.Equal(t, "NM", obs.ValueType)
	assert.Equal(t, "GLU", obs.TestCode)
	assert.Equal(t, "Glucose", obs.AnalyteName)
	assert.Equal(t, "92", obs.ValueText)
	assert.Equal(t, "mg/dL", obs.Unit)
	assert.Equal(t, "70-110", obs.ReferenceRange)
	assert.Equal(t, enums.AbnormalFlagNormal, obs.AbnormalFlag)
	assert.Equal(t, "F", obs.ResultStatus)
	require.NotNil(t, obs.MeasuredAt)

	assert.Len(t, msg.Observations(), 2)
}

func TestParseToleratesNewlineEndings(t *testing.T) {
	p := NewParser("TMP")

	msg, err := p.Parse(strings.ReplaceAll(sampleORU, "\r", "\n"))
	require.NoError(t, err)
	assert.Len(t, msg.Observations(), 2)
}

func TestParseRejectsUnsupportedType(t *testing.T) {
	p := NewParser("TMP")

	payload := strings.Replace(sampleORU, "ORU^R01", "ADT^A01", 1)
	_, err := p.Parse(payload)
	assert.ErrorIs(t, err, ErrUnsupportedMessageType)
}

func TestParseNormalizesStructuredType(t *testing.T) {
	p := NewParser("TMP")

	payload := strings.Replace(sampleORU, "ORU^R01", "ORU^R01^ORU_R01", 1)
	msg, err := p.Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, "ORU^R01", msg.Header.MessageType)
}

func TestParseMissingMSHIsMalformed(t *testing.T) {
	p := NewParser("TMP")

	_, err := p.Parse("PID|1||MRN-1\r")
	assert.ErrorIs(t, err, ErrMalformedMessage)

	_, err = p.Parse("")
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestParseOBXBeforeOBRIsMalformed(t *testing.T) {
	p := NewParser("TMP")

	payload := "MSH|^~\\&|A|B|C|D|20240115093000||ORU^R01|MSG2|P|2.5\r" +
		"OBX|1|NM|GLU^Glucose||92||||||F\r"
	_, err := p.Parse(payload)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestParseShortMSHIsMalformed(t *testing.T) {
	p := NewParser("TMP")

	_, err := p.Parse("MSH|^~\\&|A|B\r")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedMessage))
}

func TestTestCodeFallsBackToAnalyteSlug(t *testing.T) {
	p := NewParser("TMP")

	payload := "MSH|^~\\&|A|B|C|D|20240115093000||ORU^R01|MSG3|P|2.5\r" +
		"PID|1||MRN-1||DOE^JOHN||19700101|M\r" +
		"OBR|1||ORD-9|PANEL^Chem Panel|||20240115091500\r" +
		"OBX|1|NM|^White Cell Count||5.2|||||F\r"
	msg, err := p.Parse(payload)
	require.NoError(t, err)

	obs := msg.Observations()
	require.Len(t, obs, 1)
	assert.Equal(t, "WHITE_CELL_COUNT", obs[0].TestCode)
	assert.Equal(t, "White Cell Count", obs[0].AnalyteName)
}

func TestTestCodeSynthesizedWhenAllBlank(t *testing.T) {
	p := NewParser("TMP")

	payload := "MSH|^~\\&|A|B|C|D|20240115093000||ORU^R01|MSG4|P|2.5\r" +
		"OBR|1||ORD-9|PANEL\r" +
		"OBX|1|ST|^||something\r"
	msg, err := p.Parse(payload)
	require.NoError(t, err)

	obs := msg.Observations()
	require.Len(t, obs, 1)
	assert.True(t, strings.HasPrefix(obs[0].TestCode, "TMP-"), "got %q", obs[0].TestCode)
	assert.Len(t, obs[0].TestCode, len("TMP-")+8)
}

func TestUnknownAbnormalFlagMapsToNone(t *testing.T) {
	p := NewParser("TMP")

	payload := strings.Replace(sampleORU, "|70-110|N|", "|70-110|ZZ|", 1)
	msg, err := p.Parse(payload)
	require.NoError(t, err)

	obs := msg.Observations()
	assert.Equal(t, enums.AbnormalFlagNone, obs[0].AbnormalFlag)
	assert.Equal(t, "ZZ", obs[0].AbnormalFlagRaw)
}

func TestParseTimestampTruncation(t *testing.T) {
	full := ParseTimestamp("20240115093045")
	require.NotNil(t, full)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC), *full)

	minutes := ParseTimestamp("202401150930")
	require.NotNil(t, minutes)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), *minutes)

	date := ParseTimestamp("20240115")
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *date)

	fractional := ParseTimestamp("20240115093045.123")
	require.NotNil(t, fractional)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC), *fractional)
}

func TestParseTimestampMalformedYieldsNil(t *testing.T) {
	assert.Nil(t, ParseTimestamp(""))
	assert.Nil(t, ParseTimestamp("not-a-date"))
	assert.Nil(t, ParseTimestamp("2024"))
	assert.Nil(t, ParseTimestamp("20241399"))
}
