package handler

import (
	"strings"

	"botilleria/internal/checkout"
	"botilleria/internal/compliance"
	id "botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
)

// CreateOrderRequest is the HTTP request body for POST /checkout/orders.
type CreateOrderRequest struct {
	Customer CustomerPayload `json:"customer"`
}

// CustomerPayload is the customer portion of checkout requests.
type CustomerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateOrderRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Customer.Name = strings.TrimSpace(r.Customer.Name)
	r.Customer.Email = strings.TrimSpace(r.Customer.Email)
	if r.Customer.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "customer.name is required")
	}
	if r.Customer.Email == "" || !strings.Contains(r.Customer.Email, "@") {
		return dErrors.New(dErrors.CodeValidation, "customer.email must be a valid email address")
	}
	return nil
}

// ToCustomer converts the payload to the domain type.
func (r *CreateOrderRequest) ToCustomer() checkout.Customer {
	return checkout.Customer{
		Name:  r.Customer.Name,
		Email: r.Customer.Email,
		Phone: r.Customer.Phone,
	}
}

// SetShippingRequest is the body for PUT /checkout/orders/{orderID}/shipping.
type SetShippingRequest struct {
	Street       string `json:"street"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
	DeliveryTime string `json:"delivery_time,omitempty"`
}

// Validate validates and parses the request.
func (r *SetShippingRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	// Region is optional: the storefront may set a street address before
	// the customer picks a region, and evaluation skips the region rule
	// until one is present.
	r.Region = strings.TrimSpace(r.Region)
	r.DeliveryTime = strings.TrimSpace(r.DeliveryTime)
	return nil
}

// ToAddress converts the payload to the domain type.
func (r *SetShippingRequest) ToAddress() compliance.ShippingAddress {
	return compliance.ShippingAddress{
		Street:     r.Street,
		City:       r.City,
		Region:     r.Region,
		PostalCode: r.PostalCode,
	}
}

// SetItemsRequest is the body for PUT /checkout/orders/{orderID}/items.
type SetItemsRequest struct {
	Items []ItemPayload `json:"items"`
}

// ItemPayload is one cart line.
type ItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Validate validates and parses the request.
func (r *SetItemsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Items) > 100 {
		return dErrors.New(dErrors.CodeValidation, "at most 100 cart lines per order")
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

// ToItems converts the payload to domain line items.
func (r *SetItemsRequest) ToItems() []compliance.LineItem {
	items := make([]compliance.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, compliance.LineItem{
			ProductID: id.ProductID(item.ProductID),
			Quantity:  item.Quantity,
		})
	}
	return items
}

// AcknowledgeRequest is the body for
// POST /checkout/orders/{orderID}/acknowledge.
type AcknowledgeRequest struct {
	Restriction string `json:"restriction"`

	parsedType compliance.RestrictionType
}

// Validate validates and parses the request.
func (r *AcknowledgeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	switch t := compliance.RestrictionType(strings.TrimSpace(r.Restriction)); t {
	case compliance.RestrictionRegion, compliance.RestrictionTime,
		compliance.RestrictionQuantity, compliance.RestrictionAge,
		compliance.RestrictionSignature:
		r.parsedType = t
		return nil
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown restriction type")
	}
}

// ParsedType returns the validated restriction type.
func (r *AcknowledgeRequest) ParsedType() compliance.RestrictionType {
	return r.parsedType
}
