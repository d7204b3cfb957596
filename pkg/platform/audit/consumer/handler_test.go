package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botilleria/internal/platform/kafka"
	id "botilleria/pkg/domain"
	audit "botilleria/pkg/platform/audit"
	"botilleria/pkg/platform/audit/store/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validMessage(sessionID id.SessionID) *kafka.Message {
	return &kafka.Message{
		Topic: "botilleria.audit.compliance",
		Key:   []byte(sessionID.String()),
		Value: []byte(`{
			"timestamp": "2026-08-31T14:05:00.123456789Z",
			"session_id": "` + sessionID.String() + `",
			"action": "age_verification_succeeded",
			"method": "birthdate",
			"success": true,
			"minimum_age": 18,
			"birth_date_hash": "abc123",
			"client_ip": "200.28.0.1",
			"browser": "Firefox",
			"os": "Linux",
			"request_id": "req-1"
		}`),
		Timestamp: time.Date(2026, time.August, 31, 14, 5, 1, 0, time.UTC),
	}
}

func TestComplianceHandler_ArchivesEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	h := NewComplianceHandler(store, discardLogger())

	sessionID := id.NewSessionID()
	require.NoError(t, h.Handle(context.Background(), validMessage(sessionID)))

	events, err := store.ListBySession(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, audit.ActionVerificationSucceeded, events[0].Action)
	assert.Equal(t, "birthdate", events[0].Method)
	assert.True(t, events[0].Success)
	assert.Equal(t, 18, events[0].MinimumAge)
	assert.Equal(t, "abc123", events[0].BirthDateHash)
	assert.Equal(t, "200.28.0.1", events[0].ClientIP)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.Equal(t,
		time.Date(2026, time.August, 31, 14, 5, 0, 123456789, time.UTC),
		events[0].Timestamp.UTC())
}

func TestComplianceHandler_MalformedRecordsCommit(t *testing.T) {
	store := memory.NewInMemoryStore()
	h := NewComplianceHandler(store, discardLogger())

	cases := []struct {
		name string
		msg  *kafka.Message
	}{
		{"bad session key", &kafka.Message{Key: []byte("not-a-uuid"), Value: []byte(`{}`)}},
		{"bad json", &kafka.Message{Key: []byte(id.NewSessionID().String()), Value: []byte(`{nope`)}},
		{"missing action", &kafka.Message{Key: []byte(id.NewSessionID().String()), Value: []byte(`{"success":true}`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// nil error commits the record so a poison message never
			// blocks the partition
			assert.NoError(t, h.Handle(context.Background(), tc.msg))
		})
	}

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events, "malformed records must not be archived")
}

func TestComplianceHandler_BrokerTimestampFallback(t *testing.T) {
	store := memory.NewInMemoryStore()
	h := NewComplianceHandler(store, discardLogger())

	sessionID := id.NewSessionID()
	brokerTime := time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
	msg := &kafka.Message{
		Key:       []byte(sessionID.String()),
		Value:     []byte(`{"action":"compliance_evaluated","timestamp":"yesterday-ish"}`),
		Timestamp: brokerTime,
	}
	require.NoError(t, h.Handle(context.Background(), msg))

	events, err := store.ListBySession(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, brokerTime, events[0].Timestamp.UTC())
}

type failingStore struct {
	audit.Store
}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("connection refused")
}

func TestComplianceHandler_StorageFailureRetries(t *testing.T) {
	h := NewComplianceHandler(failingStore{}, discardLogger())

	err := h.Handle(context.Background(), validMessage(id.NewSessionID()))
	require.Error(t, err, "storage failures must leave the offset uncommitted")
	assert.Contains(t, err.Error(), "store audit event")
}
