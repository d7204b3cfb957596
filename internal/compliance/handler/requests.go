package handler

import (
	"strings"

	"botilleria/internal/compliance"
	id "botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
)

// CheckRequest is the HTTP request body for POST /compliance/check.
type CheckRequest struct {
	ShippingAddress AddressPayload `json:"shipping_address"`
	Items           []ItemPayload  `json:"items"`
	DeliveryTime    string         `json:"delivery_time,omitempty"`
}

// AddressPayload is the address portion of a check request.
type AddressPayload struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
}

// ItemPayload is one cart line in a check request.
type ItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Region is optional: a cart can be checked before a destination is
	// chosen, and the evaluator skips the region rule when it is absent.
	r.ShippingAddress.Region = strings.TrimSpace(r.ShippingAddress.Region)

	if len(r.Items) > 100 {
		return dErrors.New(dErrors.CodeValidation, "at most 100 cart lines per check")
	}
	for i := range r.Items {
		r.Items[i].ProductID = strings.TrimSpace(r.Items[i].ProductID)
		if r.Items[i].ProductID == "" {
			return dErrors.New(dErrors.CodeValidation, "items[].product_id is required")
		}
		if r.Items[i].Quantity <= 0 {
			return dErrors.New(dErrors.CodeValidation, "items[].quantity must be positive")
		}
	}

	r.DeliveryTime = strings.TrimSpace(r.DeliveryTime)
	return nil
}

// CartSummaryRequest is the HTTP request body for
// POST /compliance/cart-summary.
type CartSummaryRequest struct {
	Items []ItemPayload `json:"items"`
}

// Validate validates and parses the request.
func (r *CartSummaryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Items) > 100 {
		return dErrors.New(dErrors.CodeValidation, "at most 100 cart lines per summary")
	}
	for i := range r.Items {
		r.Items[i].ProductID = strings.TrimSpace(r.Items[i].ProductID)
		if r.Items[i].ProductID == "" {
			return dErrors.New(dErrors.CodeValidation, "items[].product_id is required")
		}
		if r.Items[i].Quantity <= 0 {
			return dErrors.New(dErrors.CodeValidation, "items[].quantity must be positive")
		}
	}
	return nil
}

// ToItems converts the request to domain line items.
func (r *CartSummaryRequest) ToItems() []compliance.LineItem {
	items := make([]compliance.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, compliance.LineItem{
			ProductID: id.ProductID(item.ProductID),
			Quantity:  item.Quantity,
		})
	}
	return items
}

// ToInput converts the request to the service input.
func (r *CheckRequest) ToInput() compliance.CheckInput {
	items := make([]compliance.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, compliance.LineItem{
			ProductID: id.ProductID(item.ProductID),
			Quantity:  item.Quantity,
		})
	}
	return compliance.CheckInput{
		Address: compliance.ShippingAddress{
			Street:     r.ShippingAddress.Street,
			City:       r.ShippingAddress.City,
			Region:     r.ShippingAddress.Region,
			PostalCode: r.ShippingAddress.PostalCode,
		},
		Items:        items,
		DeliveryTime: r.DeliveryTime,
	}
}
