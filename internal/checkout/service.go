package checkout

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"botilleria/internal/ageverify"
	"botilleria/internal/checkout/metrics"
	"botilleria/internal/compliance"
	id "botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
	audit "botilleria/pkg/platform/audit"
	"botilleria/pkg/platform/sentinel"
	"botilleria/pkg/requestcontext"
)

var tracer = otel.Tracer("botilleria/internal/checkout")

// ComplianceChecker evaluates an order against the delivery rules.
type ComplianceChecker interface {
	Check(ctx context.Context, input compliance.CheckInput) (*compliance.Verdict, error)
}

// AgeGate is the verification state the checkout consults.
type AgeGate interface {
	Status(ctx context.Context) (ageverify.Status, error)
	RequireVerified(ctx context.Context) error
}

// AuditPublisher is the fire-and-forget port to the compliance trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service sequences one checkout attempt: customer info, shipping,
// compliance gate, and final placement. It owns the rule that an order is
// never placed on a stale verdict.
type Service struct {
	orders  Store
	checker ComplianceChecker
	gate    AgeGate
	auditor AuditPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService constructs the checkout service.
func NewService(orders Store, checker ComplianceChecker, gate AgeGate, auditor AuditPublisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		orders:  orders,
		checker: checker,
		gate:    gate,
		auditor: auditor,
		logger:  logger,
		metrics: m,
	}
}

// Create opens a draft order for the current browsing session.
func (s *Service) Create(ctx context.Context, customer Customer) (*Order, error) {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInternal, "browsing session missing from context")
	}
	now := requestcontext.Now(ctx)

	order := &Order{
		ID:           id.NewOrderID(),
		SessionID:    sessionID,
		Customer:     customer,
		Acknowledged: make(map[compliance.RestrictionType]bool),
		Status:       OrderStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create order")
	}
	return order, nil
}

// Get returns the session's order.
func (s *Service) Get(ctx context.Context, orderID id.OrderID) (*Order, error) {
	return s.load(ctx, orderID)
}

// SetShipping records the destination and optional delivery slot. Any prior
// verdict is discarded.
func (s *Service) SetShipping(ctx context.Context, orderID id.OrderID, address compliance.ShippingAddress, deliveryTime string) (*Order, error) {
	if _, err := compliance.ParseDeliveryHour(deliveryTime); err != nil {
		return nil, err
	}

	order, err := s.loadEditable(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Address = &address
	order.DeliveryTime = deliveryTime
	order.invalidate(requestcontext.Now(ctx))

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update order")
	}
	return order, nil
}

// SetItems replaces the cart lines. Any prior verdict is discarded.
func (s *Service) SetItems(ctx context.Context, orderID id.OrderID, items []compliance.LineItem) (*Order, error) {
	for _, item := range items {
		if item.ProductID == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "product id is required on every line")
		}
		if item.Quantity <= 0 {
			return nil, dErrors.Newf(dErrors.CodeValidation, "quantity for product %s must be positive", item.ProductID)
		}
	}

	order, err := s.loadEditable(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Items = append([]compliance.LineItem(nil), items...)
	order.invalidate(requestcontext.Now(ctx))

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update order")
	}
	return order, nil
}

// Evaluate runs the compliance gate over the order's current address and
// items and stores the resulting verdict and status.
func (s *Service) Evaluate(ctx context.Context, orderID id.OrderID) (*Order, error) {
	order, err := s.loadEditable(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.evaluate(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.IncrementEvaluation(string(order.Status))
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update order")
	}
	return order, nil
}

// Acknowledge confirms one required restriction (adult signature, quantity
// advisories). The age requirement cannot be acknowledged away; it is
// satisfied only through the verification gate.
func (s *Service) Acknowledge(ctx context.Context, orderID id.OrderID, restrictionType compliance.RestrictionType) (*Order, error) {
	order, err := s.loadEditable(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Verdict == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "order has no current evaluation")
	}
	if restrictionType == compliance.RestrictionAge {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "age verification cannot be acknowledged, complete the verification instead")
	}

	applies := false
	for _, r := range order.Verdict.RequiredRestrictions() {
		if r.Type == restrictionType {
			applies = true
			break
		}
	}
	if !applies {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "restriction %q is not pending on this order", restrictionType)
	}

	order.Acknowledged[restrictionType] = true
	order.UpdatedAt = requestcontext.Now(ctx)

	ageStatus, err := s.gate.Status(ctx)
	if err != nil {
		return nil, err
	}
	s.applyStatus(order, ageStatus)

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update order")
	}
	return order, nil
}

// Finalize places the order. The verdict is recomputed from scratch first so
// placement can never ride on a stale evaluation.
//
// Errors: CodeNotCompliant when blocked or with unacknowledged required
// steps, CodeForbidden when the age gate is not satisfied.
func (s *Service) Finalize(ctx context.Context, orderID id.OrderID) (*Order, error) {
	ctx, span := tracer.Start(ctx, "checkout.finalize")
	defer span.End()

	order, err := s.loadEditable(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Address == nil {
		s.metrics.IncrementFinalizeRejection("not_evaluated")
		return nil, dErrors.New(dErrors.CodeMissingInput, "shipping address is required")
	}

	ageStatus, err := s.evaluate(ctx, order)
	if err != nil {
		return nil, err
	}

	if !order.Verdict.Compliant {
		s.metrics.IncrementFinalizeRejection("non_compliant")
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update order")
		}
		return nil, dErrors.New(dErrors.CodeNotCompliant, "order does not comply with delivery regulations")
	}

	if pending := order.pendingAcks(); len(pending) > 0 {
		s.metrics.IncrementFinalizeRejection("pending_acks")
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update order")
		}
		return nil, dErrors.Newf(dErrors.CodeNotCompliant, "required restrictions must be acknowledged first: %v", pending)
	}

	if order.Verdict.RequiresAgeVerification() && !ageStatus.Verified() {
		s.metrics.IncrementFinalizeRejection("age_unverified")
		if err := s.gate.RequireVerified(ctx); err != nil {
			return nil, err
		}
	}

	order.Status = OrderStatusPlaced
	order.UpdatedAt = requestcontext.Now(ctx)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update order")
	}

	s.metrics.IncrementPlaced()
	span.SetAttributes(attribute.String("order_id", order.ID.String()))
	s.auditor.Emit(ctx, audit.Event{
		Timestamp: order.UpdatedAt,
		SessionID: order.SessionID,
		Action:    audit.ActionOrderAcknowledged,
		Success:   true,
		Reason:    "order placed after compliance gate",
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"session_id", order.SessionID,
		"restrictions", len(order.Verdict.Restrictions),
	)

	return order, nil
}

// evaluate recomputes the verdict and status in place. The compliance check
// and the age-gate read are independent lookups, fetched in parallel.
func (s *Service) evaluate(ctx context.Context, order *Order) (ageverify.Status, error) {
	if order.Address == nil {
		return ageverify.Status{}, dErrors.New(dErrors.CodeMissingInput, "shipping address is required before evaluation")
	}

	ctx, span := tracer.Start(ctx, "checkout.evaluate")
	defer span.End()

	var (
		verdict   *compliance.Verdict
		ageStatus ageverify.Status
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		verdict, err = s.checker.Check(gctx, compliance.CheckInput{
			Address:      *order.Address,
			Items:        order.Items,
			DeliveryTime: order.DeliveryTime,
		})
		return err
	})
	g.Go(func() error {
		var err error
		ageStatus, err = s.gate.Status(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ageverify.Status{}, err
	}

	order.Verdict = verdict
	order.UpdatedAt = requestcontext.Now(ctx)
	s.applyStatus(order, ageStatus)

	span.SetAttributes(
		attribute.Bool("compliant", verdict.Compliant),
		attribute.Int("restrictions", len(verdict.Restrictions)),
		attribute.String("status", string(order.Status)),
	)
	return ageStatus, nil
}

// applyStatus derives the order status from the stored verdict, the
// acknowledgment set, and the gate state.
func (s *Service) applyStatus(order *Order, ageStatus ageverify.Status) {
	switch {
	case order.Verdict == nil:
		order.Status = OrderStatusDraft
	case !order.Verdict.Compliant:
		order.Status = OrderStatusBlocked
	case len(order.pendingAcks()) > 0,
		order.Verdict.RequiresAgeVerification() && !ageStatus.Verified():
		order.Status = OrderStatusActionRequired
	default:
		order.Status = OrderStatusReady
	}
}

func (s *Service) load(ctx context.Context, orderID id.OrderID) (*Order, error) {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInternal, "browsing session missing from context")
	}

	order, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load order")
	}
	if order.SessionID != sessionID {
		return nil, dErrors.New(dErrors.CodeForbidden, "order belongs to a different session")
	}
	return order, nil
}

func (s *Service) loadEditable(ctx context.Context, orderID id.OrderID) (*Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == OrderStatusPlaced {
		return nil, dErrors.New(dErrors.CodeConflict, "order is already placed")
	}
	return order, nil
}
