package handler

import (
	"time"

	"botilleria/internal/checkout"
	"botilleria/internal/compliance"
)

// OrderResponse is the HTTP representation of a checkout order.
type OrderResponse struct {
	ID           string                       `json:"id"`
	Status       string                       `json:"status"`
	Customer     CustomerPayload              `json:"customer"`
	Address      *compliance.ShippingAddress  `json:"shipping_address,omitempty"`
	Items        []ItemPayload                `json:"items"`
	DeliveryTime string                       `json:"delivery_time,omitempty"`
	Verdict      *compliance.Verdict          `json:"verdict,omitempty"`
	Acknowledged []compliance.RestrictionType `json:"acknowledged,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

// FromOrder converts a domain order to its HTTP shape.
func FromOrder(order *checkout.Order) *OrderResponse {
	items := make([]ItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemPayload{
			ProductID: string(item.ProductID),
			Quantity:  item.Quantity,
		})
	}

	var acknowledged []compliance.RestrictionType
	for _, t := range []compliance.RestrictionType{
		compliance.RestrictionRegion, compliance.RestrictionTime,
		compliance.RestrictionQuantity, compliance.RestrictionAge,
		compliance.RestrictionSignature,
	} {
		if order.Acknowledged[t] {
			acknowledged = append(acknowledged, t)
		}
	}

	return &OrderResponse{
		ID:     order.ID.String(),
		Status: string(order.Status),
		Customer: CustomerPayload{
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		},
		Address:      order.Address,
		Items:        items,
		DeliveryTime: order.DeliveryTime,
		Verdict:      order.Verdict,
		Acknowledged: acknowledged,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}
