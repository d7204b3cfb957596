// Package audit captures the compliance trail required by Law 19.925: every
// age-verification attempt and every checkout compliance evaluation, with
// enough client metadata to answer a regulator and no raw personal data.
package audit

import (
	"time"

	id "botilleria/pkg/domain"
)

// Action identifies what happened.
type Action string

const (
	// Age verification attempts.
	ActionVerificationSucceeded Action = "age_verification_succeeded"
	ActionVerificationUnderage  Action = "age_verification_underage"
	ActionVerificationDeclined  Action = "age_verification_declined"
	ActionVerificationReplayed  Action = "age_verification_replayed"
	ActionVerificationExpired   Action = "age_verification_expired"

	// Checkout compliance.
	ActionComplianceEvaluated Action = "compliance_evaluated"
	ActionOrderAcknowledged   Action = "order_restrictions_acknowledged"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// BirthDateHash is a SHA-256 hash of the submitted birth date; it supports
// traceability across attempts without retaining the date itself.
type Event struct {
	Timestamp     time.Time
	SessionID     id.SessionID
	Action        Action
	Method        string
	Success       bool
	Reason        string
	MinimumAge    int
	BirthDateHash string
	ClientIP      string
	UserAgent     string
	Browser       string
	OS            string
	RequestID     string
}
