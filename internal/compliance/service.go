package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"botilleria/internal/catalog"
	"botilleria/internal/compliance/metrics"
	id "botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
	audit "botilleria/pkg/platform/audit"
	"botilleria/pkg/requestcontext"
)

// AuditPublisher is the fire-and-forget port to the compliance trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service resolves cart lines against the catalog and runs the pure
// evaluator over the result.
type Service struct {
	catalog catalog.Store
	auditor AuditPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService constructs the compliance service.
func NewService(catalogStore catalog.Store, auditor AuditPublisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		catalog: catalogStore,
		auditor: auditor,
		logger:  logger,
		metrics: m,
	}
}

// CheckInput is one compliance check request.
type CheckInput struct {
	Address ShippingAddress
	Items   []LineItem

	// DeliveryTime is the scheduled slot as "HH:MM", empty when none.
	DeliveryTime string
}

// Check evaluates the order against the delivery rules.
//
// Cart lines whose product the catalog does not know are skipped rather than
// failed: an unknown product cannot contribute alcohol data, and blocking
// checkout on catalog drift would strand carts. Each skip is logged and
// counted.
func (s *Service) Check(ctx context.Context, input CheckInput) (*Verdict, error) {
	deliveryHour, err := ParseDeliveryHour(input.DeliveryTime)
	if err != nil {
		return nil, err
	}

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, dErrors.Newf(dErrors.CodeValidation, "quantity for product %s must be positive", item.ProductID)
		}
	}

	items, err := s.resolve(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	verdict := Evaluate(EvaluateInput{
		Address:      input.Address,
		Items:        items,
		DeliveryHour: deliveryHour,
	}, requestcontext.Now(ctx))

	outcome := "compliant"
	if !verdict.Compliant {
		outcome = "non_compliant"
	}
	s.metrics.IncrementEvaluation(outcome)
	for _, r := range verdict.Restrictions {
		s.metrics.IncrementRestriction(string(r.Type))
	}

	s.emitEvaluated(ctx, verdict)

	return &verdict, nil
}

// SummarizeCart derives the cart-level flags the storefront shows before any
// address is known: whether the cart holds age-restricted products, and
// whether its composition will demand additional age verification at
// checkout. Uses the same trigger as the evaluator's age step so the summary
// never disagrees with a later verdict.
func (s *Service) SummarizeCart(ctx context.Context, lines []LineItem) (*CartSummary, error) {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, dErrors.Newf(dErrors.CodeValidation, "quantity for product %s must be positive", line.ProductID)
		}
	}

	items, err := s.resolve(ctx, lines)
	if err != nil {
		return nil, err
	}

	summary := CartSummary{}
	totalQuantity := 0
	for _, item := range items {
		totalQuantity += item.Quantity
		if item.MinimumAge > 0 || item.ABV != nil {
			summary.HasRestrictedItems = true
		}
		if item.HasHighABV() {
			summary.RequiresAdditionalVerification = true
		}
	}
	if totalQuantity > AgeCheckQuantityThreshold {
		summary.RequiresAdditionalVerification = true
	}
	return &summary, nil
}

// resolve joins cart lines with catalog data, dropping unknown products.
func (s *Service) resolve(ctx context.Context, lines []LineItem) ([]ResolvedItem, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	productIDs := make([]id.ProductID, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}

	products, err := s.catalog.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve cart products")
	}

	items := make([]ResolvedItem, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			s.metrics.IncrementUnknownProduct()
			s.logger.WarnContext(ctx, "skipping unknown product in compliance check",
				"request_id", requestcontext.RequestID(ctx),
				"product_id", line.ProductID,
			)
			continue
		}
		items = append(items, ResolvedItem{
			ProductID:   product.ID,
			Name:        product.Name,
			Quantity:    line.Quantity,
			ABV:         product.ABV,
			MaxPerOrder: product.MaxPerOrder,
			MinimumAge:  product.MinimumAge,
		})
	}
	return items, nil
}

func (s *Service) emitEvaluated(ctx context.Context, verdict Verdict) {
	var blocking []string
	for _, r := range verdict.Restrictions {
		if r.Status.Blocking() {
			blocking = append(blocking, string(r.Type))
		}
	}

	reason := "all delivery rules satisfied"
	if len(blocking) > 0 {
		reason = fmt.Sprintf("blocked by: %s", strings.Join(blocking, ", "))
	}

	s.auditor.Emit(ctx, audit.Event{
		Timestamp: verdict.EvaluatedAt,
		SessionID: requestcontext.SessionID(ctx),
		Action:    audit.ActionComplianceEvaluated,
		Success:   verdict.Compliant,
		Reason:    reason,
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
}

// ParseDeliveryHour extracts the hour from an "HH:MM" delivery slot. Empty
// input means no scheduled slot.
// Errors: CodeInvalidInput when the value is not a valid time of day.
func ParseDeliveryHour(deliveryTime string) (*int, error) {
	if deliveryTime == "" {
		return nil, nil
	}
	parts := strings.SplitN(deliveryTime, ":", 2)
	if len(parts) != 2 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "delivery time must be HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "delivery time must be HH:MM")
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "delivery time must be HH:MM")
	}
	return &hour, nil
}
