// Package consumer archives the compliance audit stream. It decodes records
// produced by the kafkasink store and writes them to long-term storage, so
// the Postgres compliance_log survives restarts of the serving process even
// when that process runs with an in-memory fallback.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"botilleria/internal/platform/kafka"
	id "botilleria/pkg/domain"
	audit "botilleria/pkg/platform/audit"
)

// ComplianceHandler processes compliance audit events from the audit topic.
// Events are written to the compliance_log table for long-term retention.
type ComplianceHandler struct {
	store  audit.Store
	logger *slog.Logger
}

// NewComplianceHandler creates a compliance event handler.
func NewComplianceHandler(store audit.Store, logger *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{store: store, logger: logger}
}

// compliancePayload matches the JSON shape the kafkasink store produces.
type compliancePayload struct {
	Timestamp     string `json:"timestamp"`
	SessionID     string `json:"session_id"`
	Action        string `json:"action"`
	Method        string `json:"method"`
	Success       bool   `json:"success"`
	Reason        string `json:"reason"`
	MinimumAge    int    `json:"minimum_age"`
	BirthDateHash string `json:"birth_date_hash"`
	ClientIP      string `json:"client_ip"`
	UserAgent     string `json:"user_agent"`
	Browser       string `json:"browser"`
	OS            string `json:"os"`
	RequestID     string `json:"request_id"`
}

// Handle processes one compliance audit event. Malformed records are logged
// and committed; a record that cannot be decoded will never decode on
// redelivery and must not block the partition. Storage failures return an
// error so the record is retried.
func (h *ComplianceHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	sessionID, err := uuid.Parse(string(msg.Key))
	if err != nil {
		h.logger.Error("CRITICAL: failed to parse audit session key",
			"key", string(msg.Key),
			"error", err,
		)
		return nil
	}

	var payload compliancePayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.Error("CRITICAL: failed to unmarshal audit payload",
			"session_id", sessionID,
			"error", err,
		)
		return nil
	}

	if payload.Action == "" {
		h.logger.Error("CRITICAL: audit event missing action",
			"session_id", sessionID,
		)
		return nil
	}

	event := audit.Event{
		SessionID:     id.SessionID(sessionID),
		Action:        audit.Action(payload.Action),
		Method:        payload.Method,
		Success:       payload.Success,
		Reason:        payload.Reason,
		MinimumAge:    payload.MinimumAge,
		BirthDateHash: payload.BirthDateHash,
		ClientIP:      payload.ClientIP,
		UserAgent:     payload.UserAgent,
		Browser:       payload.Browser,
		OS:            payload.OS,
		RequestID:     payload.RequestID,
	}

	if ts, err := time.Parse(time.RFC3339Nano, payload.Timestamp); err == nil {
		event.Timestamp = ts
	} else {
		// Fall back to the broker timestamp rather than the wall clock so
		// replays keep their original ordering.
		event.Timestamp = msg.Timestamp
	}

	if err := h.store.Append(ctx, event); err != nil {
		h.logger.Error("failed to store audit event",
			"session_id", sessionID,
			"action", event.Action,
			"error", err,
		)
		return fmt.Errorf("store audit event: %w", err)
	}

	h.logger.Debug("archived audit event",
		"session_id", sessionID,
		"action", event.Action,
	)

	return nil
}
