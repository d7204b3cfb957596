package compliance

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"botilleria/internal/catalog"
	"botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
	audit "botilleria/pkg/platform/audit"
	"botilleria/pkg/requestcontext"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *recordingPublisher) Emit(_ context.Context, event audit.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type ComplianceServiceSuite struct {
	suite.Suite

	now       time.Time
	sessionID domain.SessionID
	publisher *recordingPublisher
	service   *Service
}

func TestComplianceServiceSuite(t *testing.T) {
	suite.Run(t, new(ComplianceServiceSuite))
}

func (s *ComplianceServiceSuite) SetupTest() {
	s.now = time.Date(2025, time.June, 15, 15, 0, 0, 0, time.UTC)
	s.sessionID = domain.NewSessionID()
	s.publisher = &recordingPublisher{}
	s.service = NewService(
		catalog.NewInMemoryStoreWithProducts(catalog.SeedProducts()...),
		s.publisher,
		slog.Default(),
		nil,
	)
}

func (s *ComplianceServiceSuite) ctx() context.Context {
	ctx := requestcontext.WithSessionID(context.Background(), s.sessionID)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *ComplianceServiceSuite) TestCheckCompliantCart() {
	verdict, err := s.service.Check(s.ctx(), CheckInput{
		Address: santiagoAddress(),
		Items: []LineItem{
			{ProductID: "cristal-cerveza-lager", Quantity: 4},
		},
	})
	s.Require().NoError(err)
	s.True(verdict.Compliant)
	s.Equal(s.now, verdict.EvaluatedAt)

	s.Require().Len(s.publisher.events, 1)
	event := s.publisher.events[0]
	s.Equal(audit.ActionComplianceEvaluated, event.Action)
	s.True(event.Success)
	s.Equal(s.sessionID, event.SessionID)
}

func (s *ComplianceServiceSuite) TestCheckSpiritTriggersRequiredSteps() {
	verdict, err := s.service.Check(s.ctx(), CheckInput{
		Address: santiagoAddress(),
		Items: []LineItem{
			{ProductID: "pisco-capel-reservado", Quantity: 1},
		},
	})
	s.Require().NoError(err)
	s.True(verdict.Compliant)
	s.True(verdict.RequiresAgeVerification())
	s.True(verdict.RequiresAdultSignature())
}

func (s *ComplianceServiceSuite) TestCheckRestrictedRegionAuditsFailure() {
	address := santiagoAddress()
	address.Region = RestrictedRegions[2]

	verdict, err := s.service.Check(s.ctx(), CheckInput{
		Address: address,
		Items: []LineItem{
			{ProductID: "cristal-cerveza-lager", Quantity: 1},
		},
	})
	s.Require().NoError(err)
	s.False(verdict.Compliant)

	s.Require().Len(s.publisher.events, 1)
	event := s.publisher.events[0]
	s.False(event.Success)
	s.Contains(event.Reason, "region")
}

func (s *ComplianceServiceSuite) TestCheckUnknownProductIsSkipped() {
	verdict, err := s.service.Check(s.ctx(), CheckInput{
		Address: santiagoAddress(),
		Items: []LineItem{
			{ProductID: "discontinued-gin", Quantity: 50},
			{ProductID: "cristal-cerveza-lager", Quantity: 2},
		},
	})
	s.Require().NoError(err)

	// The unknown line contributes nothing: no aggregate breach, no caps.
	s.True(verdict.Compliant)
	s.Empty(verdict.Restrictions)
}

func (s *ComplianceServiceSuite) TestCheckEmptyCartIsCompliant() {
	verdict, err := s.service.Check(s.ctx(), CheckInput{Address: santiagoAddress()})
	s.Require().NoError(err)
	s.True(verdict.Compliant)
	s.Empty(verdict.Restrictions)
}

func (s *ComplianceServiceSuite) TestCheckRejectsNonPositiveQuantity() {
	_, err := s.service.Check(s.ctx(), CheckInput{
		Address: santiagoAddress(),
		Items: []LineItem{
			{ProductID: "cristal-cerveza-lager", Quantity: 0},
		},
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ComplianceServiceSuite) TestCheckNightSlotWarns() {
	verdict, err := s.service.Check(s.ctx(), CheckInput{
		Address:      santiagoAddress(),
		Items:        []LineItem{{ProductID: "cristal-cerveza-lager", Quantity: 1}},
		DeliveryTime: "23:30",
	})
	s.Require().NoError(err)
	s.True(verdict.Compliant)
	s.Require().Len(verdict.Restrictions, 1)
	s.Equal(RestrictionTime, verdict.Restrictions[0].Type)
}

func (s *ComplianceServiceSuite) TestCheckRejectsMalformedDeliveryTime() {
	for _, bad := range []string{"25:00", "12:71", "noon", "12", "-1:30"} {
		_, err := s.service.Check(s.ctx(), CheckInput{
			Address:      santiagoAddress(),
			DeliveryTime: bad,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "value %q", bad)
	}
}

func (s *ComplianceServiceSuite) TestSummarizeCartBeerOnly() {
	summary, err := s.service.SummarizeCart(s.ctx(), []LineItem{
		{ProductID: "cristal-cerveza-lager", Quantity: 2},
	})
	s.Require().NoError(err)
	s.True(summary.HasRestrictedItems)
	s.False(summary.RequiresAdditionalVerification)
}

func (s *ComplianceServiceSuite) TestSummarizeCartSpiritNeedsVerification() {
	summary, err := s.service.SummarizeCart(s.ctx(), []LineItem{
		{ProductID: "pisco-capel-reservado", Quantity: 1},
	})
	s.Require().NoError(err)
	s.True(summary.HasRestrictedItems)
	s.True(summary.RequiresAdditionalVerification)
}

func (s *ComplianceServiceSuite) TestSummarizeCartBulkBeerNeedsVerification() {
	summary, err := s.service.SummarizeCart(s.ctx(), []LineItem{
		{ProductID: "cristal-cerveza-lager", Quantity: 7},
	})
	s.Require().NoError(err)
	s.True(summary.RequiresAdditionalVerification)
}

func (s *ComplianceServiceSuite) TestSummarizeCartEmpty() {
	summary, err := s.service.SummarizeCart(s.ctx(), nil)
	s.Require().NoError(err)
	s.False(summary.HasRestrictedItems)
	s.False(summary.RequiresAdditionalVerification)
}

func (s *ComplianceServiceSuite) TestSummarizeCartUnknownProductIgnored() {
	summary, err := s.service.SummarizeCart(s.ctx(), []LineItem{
		{ProductID: "ghost-product", Quantity: 50},
	})
	s.Require().NoError(err)
	s.False(summary.HasRestrictedItems)
	s.False(summary.RequiresAdditionalVerification)
}

func TestParseDeliveryHour(t *testing.T) {
	suite := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:15", 9},
		{"22:45", 22},
		{"23:59", 23},
	}
	for _, tt := range suite {
		hour, err := ParseDeliveryHour(tt.in)
		if err != nil {
			t.Fatalf("ParseDeliveryHour(%q): %v", tt.in, err)
		}
		if hour == nil || *hour != tt.want {
			t.Fatalf("ParseDeliveryHour(%q) = %v, want %d", tt.in, hour, tt.want)
		}
	}

	hour, err := ParseDeliveryHour("")
	if err != nil || hour != nil {
		t.Fatalf("ParseDeliveryHour(\"\") = %v, %v; want nil, nil", hour, err)
	}
}
