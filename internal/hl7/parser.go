package hl7

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/meridianlabs/lims-backend/pkg/enums"
)

const (
	fieldSeparator     = "|"
	componentSeparator = "^"

	supportedMessageType = "ORU^R01"
)

var (
	// ErrMalformedMessage marks a whole-message structural decode failure.
	ErrMalformedMessage = errors.New("malformed hl7 message")
	// ErrUnsupportedMessageType marks a message kind this pipeline does not handle.
	ErrUnsupportedMessageType = errors.New("unsupported hl7 message type")
)

var codeSanitizeRe = regexp.MustCompile(`[^A-Z0-9]+`)

// Parser decodes raw HL7 v2.5 text into the pipeline's message model.
type Parser struct {
	tempCodePrefix string
}

func NewParser(tempCodePrefix string) *Parser {
	if tempCodePrefix == "" {
		tempCodePrefix = "TMP"
	}
	return &Parser{tempCodePrefix: tempCodePrefix}
}

// ExtractMetadata pulls the MSH identity fields without decoding the rest of
// the message. It returns false when no usable MSH segment is present.
func (p *Parser) ExtractMetadata(payload string) (*Metadata, bool) {
	for _, segment := range splitSegments(payload) {
		if !strings.HasPrefix(segment, "MSH") {
			continue
		}
		fields := strings.Split(segment, fieldSeparator)
		if len(fields) < 10 {
			return nil, false
		}
		return &Metadata{
			SendingApplication: firstComponent(fields[2]),
			SendingFacility:    firstComponent(fields[3]),
			MessageControlID:   strings.TrimSpace(fields[9]),
		}, true
	}
	return nil, false
}

// Parse fully decodes the payload. Only ORU^R01 messages are accepted; any
// structural failure is a whole-message error, while per-observation oddities
// (missing codes, malformed timestamps) degrade per the normalization rules.
func (p *Parser) Parse(payload string) (*Message, error) {
	segments := splitSegments(payload)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedMessage)
	}
	if !strings.HasPrefix(segments[0], "MSH") {
		return nil, fmt.Errorf("%w: first segment is not MSH", ErrMalformedMessage)
	}

	header, err := parseHeader(segments[0])
	if err != nil {
		return nil, err
	}
	if !isSupportedType(header.MessageType) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMessageType, header.MessageType)
	}

	msg := &Message{Header: *header}

	var current *OrderGroup
	for _, segment := range segments[1:] {
		switch segmentID(segment) {
		case "PID":
			msg.Patient = parsePatient(segment)
		case "OBR":
			group, err := parseOrderGroup(segment)
			if err != nil {
				return nil, err
			}
			msg.Orders = append(msg.Orders, *group)
			current = &msg.Orders[len(msg.Orders)-1]
		case "OBX":
			if current == nil {
				return nil, fmt.Errorf("%w: OBX segment before any OBR", ErrMalformedMessage)
			}
			obs, err := p.parseObservation(segment, current.OrderNumber)
			if err != nil {
				return nil, err
			}
			current.Observations = append(current.Observations, *obs)
		default:
			// NTE and other segment types carry nothing this pipeline consumes.
		}
	}

	return msg, nil
}

func parseHeader(segment string) (*Header, error) {
	fields := strings.Split(segment, fieldSeparator)
	if len(fields) < 12 {
		return nil, fmt.Errorf("%w: MSH has %d fields, need 12", ErrMalformedMessage, len(fields))
	}

	// After splitting on "|", index 1 holds the encoding characters, so
	// MSH-n maps to index n-1 for n >= 2.
	typeField := fields[8]
	return &Header{
		TimestampRaw:     strings.TrimSpace(fields[6]),
		Timestamp:        ParseTimestamp(fields[6]),
		MessageType:      normalizeMessageType(typeField),
		MessageControlID: strings.TrimSpace(fields[9]),
		Version:          strings.TrimSpace(fields[11]),
	}, nil
}

func parsePatient(segment string) Patient {
	fields := strings.Split(segment, fieldSeparator)
	patient := Patient{}
	if len(fields) > 3 {
		patient.Identifier = firstComponent(fields[3])
	}
	if len(fields) > 5 {
		comps := strings.Split(fields[5], componentSeparator)
		patient.LastName = strings.TrimSpace(comps[0])
		if len(comps) > 1 {
			patient.FirstName = strings.TrimSpace(comps[1])
		}
	}
	if len(fields) > 7 {
		patient.DateOfBirthRaw = strings.TrimSpace(fields[7])
		patient.DateOfBirth = ParseTimestamp(fields[7])
	}
	if len(fields) > 8 {
		patient.AdministrativeSex = strings.TrimSpace(fields[8])
	}
	return patient
}

func parseOrderGroup(segment string) (*OrderGroup, error) {
	fields := strings.Split(segment, fieldSeparator)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: OBR has %d fields, need 4", ErrMalformedMessage, len(fields))
	}

	group := &OrderGroup{
		OrderNumber: firstComponent(fields[3]),
	}
	if len(fields) > 4 {
		comps := strings.Split(fields[4], componentSeparator)
		group.ServiceID = strings.TrimSpace(comps[0])
		if len(comps) > 1 {
			group.ServiceText = strings.TrimSpace(comps[1])
		}
	}
	if len(fields) > 7 {
		group.ObservedAtRaw = strings.TrimSpace(fields[7])
		group.ObservedAt = ParseTimestamp(fields[7])
	}
	return group, nil
}

func (p *Parser) parseObservation(segment string, orderNumber string) (*ObservationCandidate, error) {
	fields := strings.Split(segment, fieldSeparator)
	if len(fields) < 6 {
		return nil, fmt.Errorf("%w: OBX has %d fields, need 6", ErrMalformedMessage, len(fields))
	}

	obs := &ObservationCandidate{
		OrderNumber: orderNumber,
		ValueType:   strings.TrimSpace(fields[2]),
	}

	idComps := strings.Split(fields[3], componentSeparator)
	wireCode := strings.TrimSpace(idComps[0])
	if len(idComps) > 1 {
		obs.AnalyteName = strings.TrimSpace(idComps[1])
	}
	if obs.AnalyteName == "" {
		obs.AnalyteName = wireCode
	}
	obs.TestCode = p.normalizeTestCode(wireCode, obs.AnalyteName)

	obs.ValueText = strings.TrimSpace(fields[5])
	if len(fields) > 6 {
		obs.Unit = firstComponent(fields[6])
	}
	if len(fields) > 7 {
		obs.ReferenceRange = strings.TrimSpace(fields[7])
	}
	if len(fields) > 8 {
		obs.AbnormalFlagRaw = strings.TrimSpace(fields[8])
		obs.AbnormalFlag = enums.AbnormalFlagFromWire(fields[8])
	}
	if len(fields) > 11 {
		obs.ResultStatus = strings.TrimSpace(fields[11])
	}
	if len(fields) > 14 {
		obs.MeasuredAt = ParseTimestamp(fields[14])
	}

	return obs, nil
}

// normalizeTestCode guarantees every observation is addressable downstream:
// a blank wire code falls back to a deterministic slug of the analyte name,
// and if both are blank a temporary unique code is synthesized.
func (p *Parser) normalizeTestCode(wireCode, analyteName string) string {
	if wireCode != "" {
		return wireCode
	}
	slug := codeSanitizeRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(analyteName)), "_")
	slug = strings.Trim(slug, "_")
	if slug != "" {
		return slug
	}
	return fmt.Sprintf("%s-%s", p.tempCodePrefix, uuid.NewString()[:8])
}

func isSupportedType(messageType string) bool {
	return messageType == supportedMessageType
}

// normalizeMessageType keeps the code and trigger event, dropping the optional
// message-structure component (ORU^R01^ORU_R01 -> ORU^R01).
func normalizeMessageType(field string) string {
	comps := strings.Split(strings.TrimSpace(field), componentSeparator)
	if len(comps) >= 2 {
		return comps[0] + componentSeparator + comps[1]
	}
	return strings.TrimSpace(field)
}

// splitSegments tolerates the three line endings seen from real instruments.
func splitSegments(payload string) []string {
	normalized := strings.ReplaceAll(payload, "\r\n", "\r")
	normalized = strings.ReplaceAll(normalized, "\n", "\r")
	var segments []string
	for _, part := range strings.Split(normalized, "\r") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}

func segmentID(segment string) string {
	if len(segment) < 3 {
		return ""
	}
	return segment[:3]
}

func firstComponent(field string) string {
	return strings.TrimSpace(strings.Split(field, componentSeparator)[0])
}
