package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meridianlabs/lims-backend/internal/hl7"
	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/enums"
)

// Result reports the first failing check. FieldPath points the operator at the
// offending segment/field; Message explains the failure, including both the
// wire and stored values on cross-reference mismatches.
type Result struct {
	Valid     bool
	FieldPath string
	Message   string
}

func ok() *Result {
	return &Result{Valid: true}
}

func fail(fieldPath, format string, args ...any) *Result {
	return &Result{Valid: false, FieldPath: fieldPath, Message: fmt.Sprintf(format, args...)}
}

var allowedValueTypes = map[string]struct{}{
	"NM": {}, "ST": {}, "TX": {}, "CE": {}, "DTM": {}, "TM": {}, "TS": {},
}

var allowedResultStatuses = map[string]struct{}{
	"F": {}, "C": {}, "P": {}, "R": {}, "I": {}, "X": {}, "D": {},
}

// Validate runs the structural and cross-reference checks in a fixed,
// short-circuiting order: header, patient (presence then order cross-check),
// then every order-detail and observation segment. The first failing check
// wins.
func Validate(msg *hl7.Message, order *models.TestOrder) *Result {
	if res := validateHeader(msg.Header); !res.Valid {
		return res
	}
	if res := validatePatient(msg.Patient, order); !res.Valid {
		return res
	}
	for i, group := range msg.Orders {
		if res := validateOrderGroup(i, group); !res.Valid {
			return res
		}
		for j, obs := range group.Observations {
			if res := validateObservation(i, j, obs); !res.Valid {
				return res
			}
		}
	}
	return ok()
}

func validateHeader(header hl7.Header) *Result {
	if header.MessageControlID == "" {
		return fail("MSH.messageControlID", "message control id is required")
	}
	if header.MessageType == "" {
		return fail("MSH.messageType", "message type is required")
	}
	if header.TimestampRaw == "" {
		return fail("MSH.timestamp", "message timestamp is required")
	}
	if header.Version == "" {
		return fail("MSH.version", "version id is required")
	}
	return ok()
}

func validatePatient(patient hl7.Patient, order *models.TestOrder) *Result {
	if patient.Identifier == "" {
		return fail("PID.patientID", "patient identifier is required")
	}
	if patient.LastName == "" {
		return fail("PID.patientName", "patient name is required")
	}
	if patient.DateOfBirthRaw == "" {
		return fail("PID.dateOfBirth", "patient date of birth is required")
	}
	if patient.AdministrativeSex == "" {
		return fail("PID.administrativeSex", "administrative sex is required")
	}

	if order == nil {
		return ok()
	}

	if !strings.EqualFold(patient.Identifier, order.MedicalRecordID) {
		return fail("PID.patientID",
			"medical record id mismatch: message has %q, order has %q",
			patient.Identifier, order.MedicalRecordID)
	}

	if patient.DateOfBirth == nil {
		return fail("PID.dateOfBirth", "unparseable date of birth %q", patient.DateOfBirthRaw)
	}
	wy, wm, wd := patient.DateOfBirth.Date()
	oy, om, od := order.PatientDOB.Date()
	if wy != oy || wm != om || wd != od {
		return fail("PID.dateOfBirth",
			"date of birth mismatch: message has %s, order has %s",
			patient.DateOfBirth.Format("2006-01-02"), order.PatientDOB.Format("2006-01-02"))
	}

	gender, mapped := enums.GenderFromAdministrativeSex(patient.AdministrativeSex)
	if !mapped {
		return fail("PID.administrativeSex",
			"administrative sex %q has no gender mapping", patient.AdministrativeSex)
	}
	if gender != order.Gender {
		return fail("PID.administrativeSex",
			"sex mismatch: message maps to %s, order has %s", gender, order.Gender)
	}

	return ok()
}

func validateOrderGroup(idx int, group hl7.OrderGroup) *Result {
	path := func(field string) string { return fmt.Sprintf("OBR[%d].%s", idx+1, field) }

	if group.OrderNumber == "" {
		return fail(path("fillerOrderNumber"), "order number is required")
	}
	if group.ServiceID == "" {
		return fail(path("universalServiceID"), "panel/service identifier is required")
	}
	if group.ObservedAtRaw == "" {
		return fail(path("observationDateTime"), "observation timestamp is required")
	}
	return ok()
}

func validateObservation(groupIdx, obsIdx int, obs hl7.ObservationCandidate) *Result {
	path := func(field string) string {
		return fmt.Sprintf("OBR[%d].OBX[%d].%s", groupIdx+1, obsIdx+1, field)
	}

	if _, allowed := allowedValueTypes[obs.ValueType]; !allowed {
		return fail(path("valueType"), "value type %q is not supported", obs.ValueType)
	}
	if obs.TestCode == "" || obs.AnalyteName == "" {
		return fail(path("observationIdentifier"), "observation identifier is required")
	}
	if obs.ValueText == "" {
		return fail(path("observationValue"), "observation value is required")
	}
	if res := validateValueShape(path("observationValue"), obs.ValueType, obs.ValueText); !res.Valid {
		return res
	}
	if _, allowed := allowedResultStatuses[obs.ResultStatus]; !allowed {
		return fail(path("resultStatus"), "result status %q is not supported", obs.ResultStatus)
	}
	return ok()
}

func validateValueShape(fieldPath, valueType, value string) *Result {
	switch valueType {
	case "NM":
		if _, err := decimal.NewFromString(value); err != nil {
			return fail(fieldPath, "value %q is not numeric", value)
		}
	case "ST", "TX":
		// non-empty already guaranteed
	case "CE":
		if !isCodedToken(value) {
			return fail(fieldPath, "value %q is not a coded token", value)
		}
	case "DTM", "TS":
		if !isDateTimeShaped(value, 8) {
			return fail(fieldPath, "value %q is not a date/time", value)
		}
	case "TM":
		if !isDateTimeShaped(value, 4) {
			return fail(fieldPath, "value %q is not a time", value)
		}
	}
	return ok()
}

// isCodedToken accepts the identifier component shape of a CE value: a leading
// code with no embedded whitespace, optionally followed by ^text components.
func isCodedToken(value string) bool {
	code := strings.Split(value, "^")[0]
	if code == "" {
		return false
	}
	return !strings.ContainsAny(code, " \t")
}

func isDateTimeShaped(value string, minDigits int) bool {
	if len(value) < minDigits {
		return false
	}
	for _, r := range value[:minDigits] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
