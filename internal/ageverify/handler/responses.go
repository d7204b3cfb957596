package handler

import (
	"time"

	"botilleria/internal/ageverify"
)

// VerifyResponse is the HTTP response for POST /age/verify and
// POST /age/decline.
type VerifyResponse struct {
	State      string    `json:"state"`
	Method     string    `json:"method"`
	VerifiedAt time.Time `json:"verified_at"`
	ExpiresAt  time.Time `json:"expires_at"`

	// Token is a signed attestation of the verification, present when token
	// issuing is configured.
	Token string `json:"token,omitempty"`
}

// StatusResponse is the HTTP response for GET /age/status.
type StatusResponse struct {
	State      string     `json:"state"`
	Method     string     `json:"method,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// ComplianceLogResponse is the HTTP response for
// POST /api/compliance/age-verification. The shape, including the statute
// reference, is what the storefront expects.
type ComplianceLogResponse struct {
	Success    bool   `json:"success"`
	Logged     bool   `json:"logged"`
	Compliance string `json:"compliance"`
}

// ComplianceReference names the statute this trail exists for.
const ComplianceReference = "Law 19.925 - Age Verification Required"

func verifyResponseFrom(record *ageverify.VerificationRecord, state ageverify.State, ttl time.Duration) VerifyResponse {
	return VerifyResponse{
		State:      string(state),
		Method:     string(record.Method),
		VerifiedAt: record.VerifiedAt,
		ExpiresAt:  record.VerifiedAt.Add(ttl),
	}
}

func statusResponseFrom(status ageverify.Status, ttl time.Duration) StatusResponse {
	resp := StatusResponse{State: string(status.State)}
	if status.Record != nil {
		verifiedAt := status.Record.VerifiedAt
		expiresAt := verifiedAt.Add(ttl)
		resp.Method = string(status.Record.Method)
		resp.VerifiedAt = &verifiedAt
		resp.ExpiresAt = &expiresAt
	}
	return resp
}
