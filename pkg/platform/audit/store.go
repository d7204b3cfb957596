package audit

import (
	"context"

	id "botilleria/pkg/domain"
)

// Store persists audit events. Implementations must be safe for concurrent
// use; Append is called from the publisher's background worker.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
