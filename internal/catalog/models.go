package catalog

import (
	id "botilleria/pkg/domain"
)

// Product is the regulatory view of a catalog item: the fields the
// compliance checks need, not the full merchandising record.
type Product struct {
	ID       id.ProductID
	Name     string
	Category string

	// ABV is the alcohol content in percent by volume. Nil for items without
	// alcohol data (glasses, accessories).
	ABV *float64

	// MaxPerOrder caps the units of this product per order where a sanitary
	// regulation imposes one. Nil means no per-product cap.
	MaxPerOrder *int

	// MinimumAge is the purchase age for this product. Zero means the
	// category default applies.
	MinimumAge int
}

// HasHighABV reports whether the product crosses the given spirits
// threshold.
func (p Product) HasHighABV(threshold float64) bool {
	return p.ABV != nil && *p.ABV > threshold
}
