// Package kafkasink streams audit events to Kafka. The topic is the durable
// source of truth when configured; a downstream consumer owns long-term
// storage. Reads are not served from here, so the sink wraps a fallback store
// that answers ListBySession/ListRecent.
package kafkasink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"botilleria/internal/platform/kafka"
	id "botilleria/pkg/domain"
	audit "botilleria/pkg/platform/audit"
)

// Store produces every appended event to the audit topic and mirrors it into
// the fallback store for local reads.
type Store struct {
	producer *kafka.Producer
	fallback audit.Store
}

func New(producer *kafka.Producer, fallback audit.Store) *Store {
	return &Store{producer: producer, fallback: fallback}
}

// payload is the JSON wire shape on the audit topic.
type payload struct {
	Timestamp     string `json:"timestamp"`
	SessionID     string `json:"session_id"`
	Action        string `json:"action"`
	Method        string `json:"method,omitempty"`
	Success       bool   `json:"success"`
	Reason        string `json:"reason,omitempty"`
	MinimumAge    int    `json:"minimum_age,omitempty"`
	BirthDateHash string `json:"birth_date_hash,omitempty"`
	ClientIP      string `json:"client_ip,omitempty"`
	UserAgent     string `json:"user_agent,omitempty"`
	Browser       string `json:"browser,omitempty"`
	OS            string `json:"os,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	body, err := json.Marshal(payload{
		Timestamp:     event.Timestamp.Format(time.RFC3339Nano),
		SessionID:     event.SessionID.String(),
		Action:        string(event.Action),
		Method:        event.Method,
		Success:       event.Success,
		Reason:        event.Reason,
		MinimumAge:    event.MinimumAge,
		BirthDateHash: event.BirthDateHash,
		ClientIP:      event.ClientIP,
		UserAgent:     event.UserAgent,
		Browser:       event.Browser,
		OS:            event.OS,
		RequestID:     event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	// Keyed by session so a session's attempts stay ordered within a partition.
	s.producer.ProduceAsync(ctx, []byte(event.SessionID.String()), body)

	return s.fallback.Append(ctx, event)
}

func (s *Store) ListBySession(ctx context.Context, sessionID id.SessionID) ([]audit.Event, error) {
	return s.fallback.ListBySession(ctx, sessionID)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.fallback.ListRecent(ctx, limit)
}
