package catalog

import (
	"context"

	id "botilleria/pkg/domain"
)

// Store is the read interface the compliance and checkout services use to
// resolve cart lines into products.
type Store interface {
	// FindByID returns one product.
	// Errors: sentinel.ErrNotFound when the ID is unknown.
	FindByID(ctx context.Context, productID id.ProductID) (*Product, error)

	// FindByIDs resolves a batch of IDs in one round trip. Unknown IDs are
	// simply absent from the result; callers decide whether that is an
	// error.
	FindByIDs(ctx context.Context, productIDs []id.ProductID) (map[id.ProductID]Product, error)
}
