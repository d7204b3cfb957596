package handler

import (
	"strings"

	"botilleria/internal/ageverify"
	dErrors "botilleria/pkg/domain-errors"
)

// VerifyRequest is the HTTP request body for POST /age/verify.
type VerifyRequest struct {
	BirthDate string `json:"birth_date"`
	Method    string `json:"method,omitempty"`

	// Parsed values (populated by Validate)
	parsedMethod ageverify.Method
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
//
// The birth date itself is only shape-checked here; the semantic checks
// (parseability, future dates, the age itself) belong to the service so the
// failure kinds stay distinguishable.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.BirthDate = strings.TrimSpace(r.BirthDate)
	if len(r.BirthDate) > 10 {
		return dErrors.New(dErrors.CodeValidation, "birth_date must be at most 10 characters")
	}

	r.Method = strings.TrimSpace(r.Method)
	if r.Method == "" {
		r.parsedMethod = ageverify.MethodBirthdate
		return nil
	}
	method, err := ageverify.ParseMethod(r.Method)
	if err != nil {
		return err
	}
	if method == ageverify.MethodDeclined {
		return dErrors.New(dErrors.CodeValidation, "declined verifications go to the decline endpoint")
	}
	r.parsedMethod = method
	return nil
}

// ParsedMethod returns the validated method.
func (r *VerifyRequest) ParsedMethod() ageverify.Method {
	return r.parsedMethod
}

// ComplianceLogRequest is the HTTP request body for
// POST /api/compliance/age-verification, the storefront's attempt-logging
// endpoint. The field names match what the storefront already sends.
type ComplianceLogRequest struct {
	BirthDate          string `json:"birthDate,omitempty"`
	VerificationMethod string `json:"verificationMethod"`
	Success            bool   `json:"success"`
	Reason             string `json:"reason,omitempty"`

	parsedMethod ageverify.Method
}

// Validate validates and parses the request.
func (r *ComplianceLogRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	method, err := ageverify.ParseMethod(strings.TrimSpace(r.VerificationMethod))
	if err != nil {
		return err
	}
	r.parsedMethod = method

	r.BirthDate = strings.TrimSpace(r.BirthDate)
	if len(r.BirthDate) > 10 {
		return dErrors.New(dErrors.CodeValidation, "birthDate must be at most 10 characters")
	}
	if len(r.Reason) > 200 {
		return dErrors.New(dErrors.CodeValidation, "reason must be at most 200 characters")
	}
	return nil
}

// ParsedMethod returns the validated method.
func (r *ComplianceLogRequest) ParsedMethod() ageverify.Method {
	return r.parsedMethod
}
