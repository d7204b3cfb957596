package checkout

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"botilleria/internal/ageverify"
	"botilleria/internal/compliance"
	"botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
	audit "botilleria/pkg/platform/audit"
	"botilleria/pkg/requestcontext"
)

// stubChecker delegates to a swappable function so tests can change the
// verdict between calls.
type stubChecker struct {
	check func(input compliance.CheckInput) (*compliance.Verdict, error)
	calls int
}

func (c *stubChecker) Check(_ context.Context, input compliance.CheckInput) (*compliance.Verdict, error) {
	c.calls++
	return c.check(input)
}

type stubGate struct {
	status ageverify.Status
}

func (g *stubGate) Status(context.Context) (ageverify.Status, error) {
	return g.status, nil
}

func (g *stubGate) RequireVerified(context.Context) error {
	if g.status.State == ageverify.StateVerified {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "age verification required")
}

type nopPublisher struct {
	events []audit.Event
}

func (p *nopPublisher) Emit(_ context.Context, event audit.Event) {
	p.events = append(p.events, event)
}

func compliantVerdict() *compliance.Verdict {
	return &compliance.Verdict{Compliant: true}
}

func spiritVerdict() *compliance.Verdict {
	return &compliance.Verdict{
		Compliant: true,
		Restrictions: []compliance.DeliveryRestriction{
			{Type: compliance.RestrictionAge, Status: compliance.StatusRequired},
			{Type: compliance.RestrictionSignature, Status: compliance.StatusRequired},
		},
	}
}

func blockedVerdict() *compliance.Verdict {
	return &compliance.Verdict{
		Compliant: false,
		Restrictions: []compliance.DeliveryRestriction{
			{Type: compliance.RestrictionRegion, Status: compliance.StatusRestricted},
		},
	}
}

type CheckoutServiceSuite struct {
	suite.Suite

	now       time.Time
	sessionID domain.SessionID
	checker   *stubChecker
	gate      *stubGate
	publisher *nopPublisher
	service   *Service
}

func TestCheckoutServiceSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceSuite))
}

func (s *CheckoutServiceSuite) SetupTest() {
	s.now = time.Date(2025, time.June, 15, 15, 0, 0, 0, time.UTC)
	s.sessionID = domain.NewSessionID()
	s.checker = &stubChecker{check: func(compliance.CheckInput) (*compliance.Verdict, error) {
		return compliantVerdict(), nil
	}}
	s.gate = &stubGate{status: ageverify.Status{State: ageverify.StateUnverified}}
	s.publisher = &nopPublisher{}
	s.service = NewService(NewInMemoryStore(), s.checker, s.gate, s.publisher, slog.Default(), nil)
}

func (s *CheckoutServiceSuite) ctx() context.Context {
	ctx := requestcontext.WithSessionID(context.Background(), s.sessionID)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *CheckoutServiceSuite) newOrderWithShipping() *Order {
	order, err := s.service.Create(s.ctx(), Customer{Name: "Valentina Rojas", Email: "valentina@example.cl"})
	s.Require().NoError(err)

	order, err = s.service.SetShipping(s.ctx(), order.ID, compliance.ShippingAddress{
		Street: "Av. Providencia 1234",
		City:   "Santiago",
		Region: "Región Metropolitana de Santiago",
	}, "")
	s.Require().NoError(err)

	order, err = s.service.SetItems(s.ctx(), order.ID, []compliance.LineItem{
		{ProductID: "cristal-cerveza-lager", Quantity: 2},
	})
	s.Require().NoError(err)
	return order
}

func (s *CheckoutServiceSuite) TestHappyPath() {
	order := s.newOrderWithShipping()
	s.Equal(OrderStatusDraft, order.Status)

	order, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)
	s.Equal(OrderStatusReady, order.Status)
	s.Require().NotNil(order.Verdict)

	order, err = s.service.Finalize(s.ctx(), order.ID)
	s.Require().NoError(err)
	s.Equal(OrderStatusPlaced, order.Status)

	s.Require().Len(s.publisher.events, 1)
	s.Equal(audit.ActionOrderAcknowledged, s.publisher.events[0].Action)
	s.True(s.publisher.events[0].Success)
}

func (s *CheckoutServiceSuite) TestCreateWithoutSessionFails() {
	_, err := s.service.Create(context.Background(), Customer{})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *CheckoutServiceSuite) TestEvaluateWithoutAddressFails() {
	order, err := s.service.Create(s.ctx(), Customer{})
	s.Require().NoError(err)

	_, err = s.service.Evaluate(s.ctx(), order.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingInput))
}

func (s *CheckoutServiceSuite) TestBlockedOrderCannotFinalize() {
	s.checker.check = func(compliance.CheckInput) (*compliance.Verdict, error) {
		return blockedVerdict(), nil
	}
	order := s.newOrderWithShipping()

	order, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)
	s.Equal(OrderStatusBlocked, order.Status)

	_, err = s.service.Finalize(s.ctx(), order.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotCompliant))
}

func (s *CheckoutServiceSuite) TestSpiritOrderNeedsGateAndAck() {
	s.checker.check = func(compliance.CheckInput) (*compliance.Verdict, error) {
		return spiritVerdict(), nil
	}
	order := s.newOrderWithShipping()

	order, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)
	s.Equal(OrderStatusActionRequired, order.Status)

	// Unverified session cannot place the order.
	_, err = s.service.Finalize(s.ctx(), order.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotCompliant) || dErrors.HasCode(err, dErrors.CodeForbidden))

	// Verified, but the signature requirement is still unacknowledged.
	s.gate.status = ageverify.Status{State: ageverify.StateVerified}
	_, err = s.service.Finalize(s.ctx(), order.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotCompliant))

	order, err = s.service.Acknowledge(s.ctx(), order.ID, compliance.RestrictionSignature)
	s.Require().NoError(err)
	s.Equal(OrderStatusReady, order.Status)

	order, err = s.service.Finalize(s.ctx(), order.ID)
	s.Require().NoError(err)
	s.Equal(OrderStatusPlaced, order.Status)
}

func (s *CheckoutServiceSuite) TestAgeRequirementCannotBeAcknowledged() {
	s.checker.check = func(compliance.CheckInput) (*compliance.Verdict, error) {
		return spiritVerdict(), nil
	}
	order := s.newOrderWithShipping()
	_, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)

	_, err = s.service.Acknowledge(s.ctx(), order.ID, compliance.RestrictionAge)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *CheckoutServiceSuite) TestAcknowledgeBeforeEvaluationConflicts() {
	order := s.newOrderWithShipping()

	_, err := s.service.Acknowledge(s.ctx(), order.ID, compliance.RestrictionSignature)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *CheckoutServiceSuite) TestAcknowledgeNonPendingRestriction() {
	order := s.newOrderWithShipping()
	_, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)

	_, err = s.service.Acknowledge(s.ctx(), order.ID, compliance.RestrictionSignature)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *CheckoutServiceSuite) TestAddressChangeDiscardsVerdict() {
	order := s.newOrderWithShipping()
	order, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)
	s.NotNil(order.Verdict)

	order, err = s.service.SetShipping(s.ctx(), order.ID, compliance.ShippingAddress{
		Region: "Región de Valparaíso",
	}, "")
	s.Require().NoError(err)
	s.Nil(order.Verdict)
	s.Equal(OrderStatusDraft, order.Status)
}

func (s *CheckoutServiceSuite) TestFinalizeNeverUsesStaleVerdict() {
	order := s.newOrderWithShipping()
	order, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)
	s.Equal(OrderStatusReady, order.Status)

	// The world changed between evaluation and placement.
	s.checker.check = func(compliance.CheckInput) (*compliance.Verdict, error) {
		return blockedVerdict(), nil
	}

	_, err = s.service.Finalize(s.ctx(), order.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotCompliant))

	reloaded, err := s.service.Get(s.ctx(), order.ID)
	s.Require().NoError(err)
	s.Equal(OrderStatusBlocked, reloaded.Status)
}

func (s *CheckoutServiceSuite) TestItemsChangeDiscardsVerdict() {
	order := s.newOrderWithShipping()
	_, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)

	order, err = s.service.SetItems(s.ctx(), order.ID, []compliance.LineItem{
		{ProductID: "pisco-capel-reservado", Quantity: 1},
	})
	s.Require().NoError(err)
	s.Nil(order.Verdict)
}

func (s *CheckoutServiceSuite) TestPlacedOrderIsImmutable() {
	order := s.newOrderWithShipping()
	_, err := s.service.Evaluate(s.ctx(), order.ID)
	s.Require().NoError(err)
	_, err = s.service.Finalize(s.ctx(), order.ID)
	s.Require().NoError(err)

	_, err = s.service.SetItems(s.ctx(), order.ID, []compliance.LineItem{{ProductID: "x", Quantity: 1}})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.Finalize(s.ctx(), order.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *CheckoutServiceSuite) TestOrderOwnershipEnforced() {
	order := s.newOrderWithShipping()

	otherSession := requestcontext.WithSessionID(context.Background(), domain.NewSessionID())
	_, err := s.service.Get(otherSession, order.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *CheckoutServiceSuite) TestGetUnknownOrder() {
	_, err := s.service.Get(s.ctx(), domain.NewOrderID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *CheckoutServiceSuite) TestSetShippingRejectsBadDeliveryTime() {
	order := s.newOrderWithShipping()

	_, err := s.service.SetShipping(s.ctx(), order.ID, compliance.ShippingAddress{Region: "x"}, "25:00")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
