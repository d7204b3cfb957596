package compliance

import (
	"time"

	id "botilleria/pkg/domain"
)

// RestrictionType classifies a delivery restriction.
type RestrictionType string

const (
	RestrictionRegion    RestrictionType = "region"
	RestrictionTime      RestrictionType = "time"
	RestrictionQuantity  RestrictionType = "quantity"
	RestrictionAge       RestrictionType = "age"
	RestrictionSignature RestrictionType = "signature"
)

// RestrictionStatus is the severity of a restriction.
//
// Only StatusRestricted blocks the order. StatusWarning is advisory and
// StatusRequired names an extra step (verification, signature) the order
// must satisfy before it ships.
type RestrictionStatus string

const (
	StatusAllowed    RestrictionStatus = "allowed"
	StatusRestricted RestrictionStatus = "restricted"
	StatusWarning    RestrictionStatus = "warning"
	StatusRequired   RestrictionStatus = "required"
)

// Blocking reports whether the status makes the order non-compliant.
func (s RestrictionStatus) Blocking() bool { return s == StatusRestricted }

// DeliveryRestriction is one finding from a compliance evaluation. Title,
// Description, and Details are user-facing Spanish copy rendered by the
// storefront as-is.
type DeliveryRestriction struct {
	Type        RestrictionType   `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      RestrictionStatus `json:"status"`
	Details     string            `json:"details,omitempty"`
}

// ShippingAddress is the destination under evaluation.
type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
}

// LineItem is one cart line as submitted by the storefront, before product
// resolution.
type LineItem struct {
	ProductID id.ProductID `json:"product_id"`
	Quantity  int          `json:"quantity"`
}

// ResolvedItem is a cart line joined with the regulatory product data the
// rules need. Unknown products never reach the evaluator.
type ResolvedItem struct {
	ProductID   id.ProductID
	Name        string
	Quantity    int
	ABV         *float64
	MaxPerOrder *int
	MinimumAge  int
}

// HasHighABV reports whether the item's product crosses the spirits
// threshold.
func (i ResolvedItem) HasHighABV() bool {
	return i.ABV != nil && *i.ABV > HighABVThreshold
}

// CartSummary is the storefront's cart-level view of the rules: whether the
// cart holds age-restricted products at all, and whether its composition
// demands additional verification before checkout.
type CartSummary struct {
	HasRestrictedItems             bool `json:"hasRestrictedItems"`
	RequiresAdditionalVerification bool `json:"requiresAdditionalVerification"`
}

// EvaluateInput is everything a compliance evaluation depends on. The
// evaluator is pure: two calls with equal input produce equal verdicts.
type EvaluateInput struct {
	Address ShippingAddress
	Items   []ResolvedItem

	// DeliveryHour is the scheduled delivery hour in 24h local time, nil
	// when the order has no scheduled slot.
	DeliveryHour *int
}

// Verdict is the outcome of one evaluation.
type Verdict struct {
	// Compliant is false exactly when at least one restriction is blocking.
	Compliant    bool                  `json:"compliant"`
	Restrictions []DeliveryRestriction `json:"restrictions"`
	EvaluatedAt  time.Time             `json:"evaluated_at"`
}

// RequiredRestrictions returns the findings the order must acknowledge or
// satisfy before it ships.
func (v Verdict) RequiredRestrictions() []DeliveryRestriction {
	var required []DeliveryRestriction
	for _, r := range v.Restrictions {
		if r.Status == StatusRequired {
			required = append(required, r)
		}
	}
	return required
}

// RequiresAgeVerification reports whether the verdict demands the additional
// age check.
func (v Verdict) RequiresAgeVerification() bool {
	for _, r := range v.Restrictions {
		if r.Type == RestrictionAge && r.Status == StatusRequired {
			return true
		}
	}
	return false
}

// RequiresAdultSignature reports whether delivery needs an adult signature.
func (v Verdict) RequiresAdultSignature() bool {
	for _, r := range v.Restrictions {
		if r.Type == RestrictionSignature && r.Status == StatusRequired {
			return true
		}
	}
	return false
}
