// Package postgres persists the compliance log in PostgreSQL for long-term
// retention. Retention policy for Law 19.925 records is handled outside the
// application (table partitioning / archival jobs).
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "botilleria/pkg/domain"
	audit "botilleria/pkg/platform/audit"
)

// Store implements audit.Store on a compliance_log table.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema creates the compliance_log table. Integration tests and first-boot
// environments run it; production uses migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS compliance_log (
	id              UUID PRIMARY KEY,
	occurred_at     TIMESTAMPTZ NOT NULL,
	session_id      UUID NOT NULL,
	action          TEXT NOT NULL,
	method          TEXT NOT NULL DEFAULT '',
	success         BOOLEAN NOT NULL DEFAULT FALSE,
	reason          TEXT NOT NULL DEFAULT '',
	minimum_age     INT NOT NULL DEFAULT 0,
	birth_date_hash TEXT NOT NULL DEFAULT '',
	client_ip       TEXT NOT NULL DEFAULT '',
	user_agent      TEXT NOT NULL DEFAULT '',
	browser         TEXT NOT NULL DEFAULT '',
	os              TEXT NOT NULL DEFAULT '',
	request_id      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS compliance_log_session_idx ON compliance_log (session_id, occurred_at);
CREATE INDEX IF NOT EXISTS compliance_log_occurred_idx ON compliance_log (occurred_at DESC);
`

// EnsureSchema applies the schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure compliance_log schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compliance_log (
			id, occurred_at, session_id, action, method, success, reason,
			minimum_age, birth_date_hash, client_ip, user_agent, browser, os, request_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		uuid.New(),
		event.Timestamp,
		uuid.UUID(event.SessionID),
		string(event.Action),
		event.Method,
		event.Success,
		event.Reason,
		event.MinimumAge,
		event.BirthDateHash,
		event.ClientIP,
		event.UserAgent,
		event.Browser,
		event.OS,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append compliance log: %w", err)
	}
	return nil
}

func (s *Store) ListBySession(ctx context.Context, sessionID id.SessionID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, session_id, action, method, success, reason,
		       minimum_age, birth_date_hash, client_ip, user_agent, browser, os, request_id
		FROM compliance_log
		WHERE session_id = $1
		ORDER BY occurred_at`,
		uuid.UUID(sessionID),
	)
	if err != nil {
		return nil, fmt.Errorf("list compliance log by session: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, session_id, action, method, success, reason,
		       minimum_age, birth_date_hash, client_ip, user_agent, browser, os, request_id
		FROM compliance_log
		ORDER BY occurred_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent compliance log: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	// Reverse to insertion order so callers see oldest first, matching the
	// in-memory store.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var sessionID uuid.UUID
		var action string
		if err := rows.Scan(
			&e.Timestamp, &sessionID, &action, &e.Method, &e.Success, &e.Reason,
			&e.MinimumAge, &e.BirthDateHash, &e.ClientIP, &e.UserAgent, &e.Browser, &e.OS, &e.RequestID,
		); err != nil {
			return nil, fmt.Errorf("scan compliance log row: %w", err)
		}
		e.SessionID = id.SessionID(sessionID)
		e.Action = audit.Action(action)
		events = append(events, e)
	}
	return events, rows.Err()
}
