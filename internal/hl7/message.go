package hl7

import (
	"time"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// Metadata is the minimal MSH extract needed before full parsing: enough to
// run the idempotency gate and label the message source.
type Metadata struct {
	MessageControlID   string
	SendingApplication string
	SendingFacility    string
}

// Header carries the MSH fields the validator checks.
type Header struct {
	MessageControlID string
	MessageType      string
	TimestampRaw     string
	Timestamp        *time.Time
	Version          string
}

// Patient carries the PID fields cross-referenced against the order snapshot.
type Patient struct {
	Identifier        string
	LastName          string
	FirstName         string
	DateOfBirthRaw    string
	DateOfBirth       *time.Time
	AdministrativeSex string
}

// OrderGroup is one OBR segment with its trailing OBX segments.
type OrderGroup struct {
	OrderNumber   string
	ServiceID     string
	ServiceText   string
	ObservedAtRaw string
	ObservedAt    *time.Time
	Observations  []ObservationCandidate
}

// ObservationCandidate is one OBX flattened into the shape the rest of the
// pipeline consumes. OrderNumber is inherited from the owning OBR; it is the
// join key back to the order aggregate.
type ObservationCandidate struct {
	OrderNumber     string
	ValueType       string
	TestCode        string
	AnalyteName     string
	ValueText       string
	Unit            string
	ReferenceRange  string
	AbnormalFlagRaw string
	AbnormalFlag    enums.AbnormalFlag
	MeasuredAt      *time.Time
	ResultStatus    string
}

// Message is the fully decoded ORU^R01 message.
type Message struct {
	Header  Header
	Patient Patient
	Orders  []OrderGroup
}

// Observations returns the flat candidate list across all order groups.
func (m *Message) Observations() []ObservationCandidate {
	var out []ObservationCandidate
	for _, group := range m.Orders {
		out = append(out, group.Observations...)
	}
	return out
}
