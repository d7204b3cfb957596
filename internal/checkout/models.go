package checkout

import (
	"time"

	"botilleria/internal/compliance"
	id "botilleria/pkg/domain"
)

// OrderStatus is the order's position in the checkout flow.
//
// Draft orders are still being edited. An evaluation moves the order to
// Blocked (non-compliant), ActionRequired (compliant but with unmet required
// steps), or Ready. Any edit to the address or items drops the order back to
// Draft and discards the verdict; a verdict never survives a change to its
// inputs.
type OrderStatus string

const (
	OrderStatusDraft          OrderStatus = "draft"
	OrderStatusBlocked        OrderStatus = "blocked"
	OrderStatusActionRequired OrderStatus = "action_required"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusPlaced         OrderStatus = "placed"
)

// Customer is the contact information collected at the first checkout step.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Order is one checkout attempt for a browsing session.
type Order struct {
	ID        id.OrderID
	SessionID id.SessionID
	Customer  Customer

	Address      *compliance.ShippingAddress
	Items        []compliance.LineItem
	DeliveryTime string

	// Verdict is the compliance outcome for the current address and items,
	// nil until evaluated or after any input change.
	Verdict *compliance.Verdict

	// Acknowledged tracks which required restrictions the customer has
	// explicitly confirmed.
	Acknowledged map[compliance.RestrictionType]bool

	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// pendingAcks returns the required restriction types not yet acknowledged.
// The age requirement is excluded: it is satisfied by the verification gate,
// not by a checkbox.
func (o *Order) pendingAcks() []compliance.RestrictionType {
	if o.Verdict == nil {
		return nil
	}
	var pending []compliance.RestrictionType
	for _, r := range o.Verdict.RequiredRestrictions() {
		if r.Type == compliance.RestrictionAge {
			continue
		}
		if !o.Acknowledged[r.Type] {
			pending = append(pending, r.Type)
		}
	}
	return pending
}

// invalidate discards the verdict and acknowledgments after an input change.
func (o *Order) invalidate(now time.Time) {
	o.Verdict = nil
	o.Acknowledged = make(map[compliance.RestrictionType]bool)
	o.Status = OrderStatusDraft
	o.UpdatedAt = now
}

// clone returns a deep enough copy for handing outside the store.
func (o *Order) clone() *Order {
	copied := *o
	if o.Address != nil {
		address := *o.Address
		copied.Address = &address
	}
	copied.Items = append([]compliance.LineItem(nil), o.Items...)
	if o.Verdict != nil {
		verdict := *o.Verdict
		verdict.Restrictions = append([]compliance.DeliveryRestriction(nil), o.Verdict.Restrictions...)
		copied.Verdict = &verdict
	}
	copied.Acknowledged = make(map[compliance.RestrictionType]bool, len(o.Acknowledged))
	for k, v := range o.Acknowledged {
		copied.Acknowledged[k] = v
	}
	return &copied
}
