package checkout

import (
	"context"

	id "botilleria/pkg/domain"
)

// Store persists checkout orders. Orders are short-lived flow state, not the
// retailer's order-of-record; a fulfilled checkout is handed off downstream.
type Store interface {
	// Create persists a new order.
	// Errors: sentinel.ErrConflict when the ID already exists.
	Create(ctx context.Context, order *Order) error

	// Get returns one order.
	// Errors: sentinel.ErrNotFound when the ID is unknown.
	Get(ctx context.Context, orderID id.OrderID) (*Order, error)

	// Update replaces a persisted order.
	// Errors: sentinel.ErrNotFound when the ID is unknown.
	Update(ctx context.Context, order *Order) error
}
