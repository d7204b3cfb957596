package ageverify

import (
	"encoding/json"
	"time"

	id "botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
)

// Method records how the user answered the age gate.
type Method string

const (
	MethodBirthdate  Method = "birthdate"
	MethodIDDocument Method = "id_document"
	MethodDeclined   Method = "declined"
)

// IsValid checks if the method is one of the supported enum values.
func (m Method) IsValid() bool {
	switch m {
	case MethodBirthdate, MethodIDDocument, MethodDeclined:
		return true
	}
	return false
}

// ParseMethod constructs a Method from external input.
// Errors: CodeInvalidInput when empty or unsupported.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "verification method cannot be empty")
	}
	m := Method(s)
	if !m.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid verification method")
	}
	return m, nil
}

// State is the session's position in the verification state machine.
// Expired is reported distinctly from Unverified even though both require
// re-prompting: the audit trail records the expiry transition.
type State string

const (
	StateUnverified State = "unverified"
	StateVerified   State = "verified"
	StateExpired    State = "expired"
	StateDeclined   State = "declined"
)

// VerificationRecord is the persisted proof that a session answered the age
// gate. Invariant: Method == MethodDeclined implies BirthDate is zero and the
// record is a negative outcome; any other method requires a birth date.
type VerificationRecord struct {
	SessionID  id.SessionID
	Method     Method
	BirthDate  time.Time // zero when Method == MethodDeclined
	VerifiedAt time.Time
}

// IsCurrent reports whether the record is still inside its validity window at
// now. A record exactly ttl old is already expired.
func (r VerificationRecord) IsCurrent(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.VerifiedAt) < ttl
}

// storedRecord is the JSON shape persisted to the key-value store. The field
// names match what the storefront writes to localStorage so server and client
// records stay interchangeable.
type storedRecord struct {
	BirthDate          string `json:"birthDate,omitempty"`
	VerificationMethod string `json:"verificationMethod"`
	Timestamp          int64  `json:"timestamp"`
	SessionID          string `json:"sessionId"`
}

// EncodeRecord serializes a record for storage.
func EncodeRecord(r VerificationRecord) ([]byte, error) {
	stored := storedRecord{
		VerificationMethod: string(r.Method),
		Timestamp:          r.VerifiedAt.UnixMilli(),
		SessionID:          r.SessionID.String(),
	}
	if !r.BirthDate.IsZero() {
		stored.BirthDate = r.BirthDate.Format(BirthDateLayout)
	}
	return json.Marshal(stored)
}

// DecodeRecord deserializes and shape-validates a stored record.
//
// Unknown extra fields are ignored for forward compatibility, but a record missing its method, timestamp, or session, or
// carrying an unparseable birth date, is rejected so callers treat it as
// absent rather than trusting a corrupt gate.
func DecodeRecord(data []byte) (VerificationRecord, error) {
	var stored storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return VerificationRecord{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed verification record")
	}

	method, err := ParseMethod(stored.VerificationMethod)
	if err != nil {
		return VerificationRecord{}, err
	}
	if stored.Timestamp <= 0 {
		return VerificationRecord{}, dErrors.New(dErrors.CodeInvalidInput, "verification record missing timestamp")
	}
	sessionID, err := id.ParseSessionID(stored.SessionID)
	if err != nil {
		return VerificationRecord{}, err
	}

	record := VerificationRecord{
		SessionID:  sessionID,
		Method:     method,
		VerifiedAt: time.UnixMilli(stored.Timestamp).UTC(),
	}

	if method != MethodDeclined {
		if stored.BirthDate == "" {
			return VerificationRecord{}, dErrors.New(dErrors.CodeInvalidInput, "verification record missing birth date")
		}
		birthDate, err := time.Parse(BirthDateLayout, stored.BirthDate)
		if err != nil {
			return VerificationRecord{}, dErrors.New(dErrors.CodeInvalidInput, "verification record has invalid birth date")
		}
		record.BirthDate = birthDate
	}

	return record, nil
}

// Status is what gate consumers see: the resolved state plus the record when
// one is current.
type Status struct {
	State  State
	Record *VerificationRecord // nil unless State is StateVerified or StateDeclined
}

// Verified is a convenience for gate checks.
func (s Status) Verified() bool { return s.State == StateVerified }
