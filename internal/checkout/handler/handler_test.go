package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"botilleria/internal/checkout"
	"botilleria/internal/checkout/handler/mocks"
	"botilleria/internal/compliance"
	id "botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks Service
type CheckoutHandlerSuite struct {
	suite.Suite
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerSuite))
}

func newTestHandler(t *testing.T) (*mocks.MockService, chi.Router) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger)
	r := chi.NewRouter()
	h.Register(r)
	return mockService, r
}

func jsonBody(s *CheckoutHandlerSuite, body any) io.Reader {
	data, err := json.Marshal(body)
	s.Require().NoError(err)
	return bytes.NewReader(data)
}

func draftOrder(orderID id.OrderID) *checkout.Order {
	now := time.Date(2025, time.June, 15, 15, 0, 0, 0, time.UTC)
	return &checkout.Order{
		ID:        orderID,
		SessionID: id.NewSessionID(),
		Customer:  checkout.Customer{Name: "Valentina Rojas", Email: "valentina@example.cl"},
		Status:    checkout.OrderStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *CheckoutHandlerSuite) TestHandleCreate() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	mockService.EXPECT().
		Create(gomock.Any(), checkout.Customer{Name: "Valentina Rojas", Email: "valentina@example.cl"}).
		Return(draftOrder(orderID), nil)

	req := httptest.NewRequest(http.MethodPost, "/checkout/orders", jsonBody(s, map[string]any{
		"customer": map[string]string{"name": "Valentina Rojas", "email": "valentina@example.cl"},
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(s.T(), http.StatusCreated, w.Code)
	var resp OrderResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), orderID.String(), resp.ID)
	assert.Equal(s.T(), "draft", resp.Status)
	assert.Nil(s.T(), resp.Verdict)
}

func (s *CheckoutHandlerSuite) TestHandleCreateValidation() {
	_, router := newTestHandler(s.T())

	cases := map[string]map[string]any{
		"missing name":  {"customer": map[string]string{"email": "a@example.cl"}},
		"missing email": {"customer": map[string]string{"name": "Valentina"}},
		"bad email":     {"customer": map[string]string{"name": "Valentina", "email": "not-an-email"}},
	}
	for name, body := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/orders", jsonBody(s, body)))
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, name)
	}
}

func (s *CheckoutHandlerSuite) TestHandleGet() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	mockService.EXPECT().Get(gomock.Any(), orderID).Return(draftOrder(orderID), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout/orders/"+orderID.String(), nil))

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp OrderResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), orderID.String(), resp.ID)
}

func (s *CheckoutHandlerSuite) TestHandleGetBadOrderID() {
	_, router := newTestHandler(s.T())

	for _, raw := range []string{"not-a-uuid", "00000000-0000-0000-0000-000000000000"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout/orders/"+raw, nil))
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, raw)
	}
}

func (s *CheckoutHandlerSuite) TestHandleGetNotFound() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	mockService.EXPECT().Get(gomock.Any(), orderID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "order not found"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout/orders/"+orderID.String(), nil))

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *CheckoutHandlerSuite) TestHandleSetShipping() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	address := compliance.ShippingAddress{
		Street: "Av. Italia 850",
		City:   "Santiago",
		Region: "Región Metropolitana de Santiago",
	}
	order := draftOrder(orderID)
	order.Address = &address
	order.DeliveryTime = "15:30"

	mockService.EXPECT().SetShipping(gomock.Any(), orderID, address, "15:30").Return(order, nil)

	req := httptest.NewRequest(http.MethodPut, "/checkout/orders/"+orderID.String()+"/shipping", jsonBody(s, map[string]string{
		"street":        "Av. Italia 850",
		"city":          "Santiago",
		"region":        "Región Metropolitana de Santiago",
		"delivery_time": "15:30",
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp OrderResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(s.T(), resp.Address)
	assert.Equal(s.T(), "Región Metropolitana de Santiago", resp.Address.Region)
	assert.Equal(s.T(), "15:30", resp.DeliveryTime)
}

func (s *CheckoutHandlerSuite) TestHandleSetShippingWithoutRegion() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	// Customers can save a street address before choosing a region;
	// evaluation simply has no region rule to apply yet.
	address := compliance.ShippingAddress{
		Street: "Av. Italia 850",
		City:   "Santiago",
	}
	order := draftOrder(orderID)
	order.Address = &address

	mockService.EXPECT().SetShipping(gomock.Any(), orderID, address, "").Return(order, nil)

	req := httptest.NewRequest(http.MethodPut, "/checkout/orders/"+orderID.String()+"/shipping", jsonBody(s, map[string]string{
		"street": "Av. Italia 850",
		"city":   "Santiago",
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp OrderResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(s.T(), resp.Address)
	assert.Empty(s.T(), resp.Address.Region)
}

func (s *CheckoutHandlerSuite) TestHandleSetItems() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	order := draftOrder(orderID)
	order.Items = []compliance.LineItem{{ProductID: "pisco-capel-reservado", Quantity: 2}}

	mockService.EXPECT().
		SetItems(gomock.Any(), orderID, []compliance.LineItem{{ProductID: "pisco-capel-reservado", Quantity: 2}}).
		Return(order, nil)

	req := httptest.NewRequest(http.MethodPut, "/checkout/orders/"+orderID.String()+"/items", jsonBody(s, map[string]any{
		"items": []map[string]any{{"product_id": "pisco-capel-reservado", "quantity": 2}},
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp OrderResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(s.T(), resp.Items, 1)
	assert.Equal(s.T(), 2, resp.Items[0].Quantity)
}

func (s *CheckoutHandlerSuite) TestHandleSetItemsValidation() {
	_, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	cases := map[string]map[string]any{
		"zero quantity":    {"items": []map[string]any{{"product_id": "x", "quantity": 0}}},
		"empty product id": {"items": []map[string]any{{"product_id": "", "quantity": 1}}},
	}
	for name, body := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/checkout/orders/"+orderID.String()+"/items", jsonBody(s, body)))
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, name)
	}
}

func (s *CheckoutHandlerSuite) TestHandleEvaluate() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	order := draftOrder(orderID)
	order.Status = checkout.OrderStatusActionRequired
	order.Verdict = &compliance.Verdict{
		Compliant: true,
		Restrictions: []compliance.DeliveryRestriction{{
			Type:   compliance.RestrictionSignature,
			Title:  "Firma de Adulto Requerida",
			Status: compliance.StatusRequired,
		}},
	}

	mockService.EXPECT().Evaluate(gomock.Any(), orderID).Return(order, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/orders/"+orderID.String()+"/evaluate", nil))

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp OrderResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "action_required", resp.Status)
	require.NotNil(s.T(), resp.Verdict)
	require.Len(s.T(), resp.Verdict.Restrictions, 1)
	assert.Equal(s.T(), "Firma de Adulto Requerida", resp.Verdict.Restrictions[0].Title)
}

func (s *CheckoutHandlerSuite) TestHandleAcknowledge() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	order := draftOrder(orderID)
	order.Status = checkout.OrderStatusReady
	order.Acknowledged = map[compliance.RestrictionType]bool{compliance.RestrictionSignature: true}

	mockService.EXPECT().
		Acknowledge(gomock.Any(), orderID, compliance.RestrictionSignature).
		Return(order, nil)

	req := httptest.NewRequest(http.MethodPost, "/checkout/orders/"+orderID.String()+"/acknowledge", jsonBody(s, map[string]string{
		"restriction": "signature",
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp OrderResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), []compliance.RestrictionType{compliance.RestrictionSignature}, resp.Acknowledged)
}

func (s *CheckoutHandlerSuite) TestHandleAcknowledgeUnknownType() {
	_, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	req := httptest.NewRequest(http.MethodPost, "/checkout/orders/"+orderID.String()+"/acknowledge", jsonBody(s, map[string]string{
		"restriction": "vibes",
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *CheckoutHandlerSuite) TestHandleFinalize() {
	mockService, router := newTestHandler(s.T())
	orderID := id.NewOrderID()

	order := draftOrder(orderID)
	order.Status = checkout.OrderStatusPlaced
	order.Verdict = &compliance.Verdict{Compliant: true}

	mockService.EXPECT().Finalize(gomock.Any(), orderID).Return(order, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/orders/"+orderID.String()+"/finalize", nil))

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp OrderResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "placed", resp.Status)
}

func (s *CheckoutHandlerSuite) TestHandleFinalizeErrorStatuses() {
	cases := []struct {
		err      error
		expected int
	}{
		{dErrors.New(dErrors.CodeNotCompliant, "order is not compliant with delivery rules"), http.StatusUnprocessableEntity},
		{dErrors.New(dErrors.CodeForbidden, "age verification required"), http.StatusForbidden},
		{dErrors.New(dErrors.CodeConflict, "order already placed"), http.StatusConflict},
	}
	for i, tc := range cases {
		mockService, router := newTestHandler(s.T())
		orderID := id.NewOrderID()
		mockService.EXPECT().Finalize(gomock.Any(), orderID).Return(nil, tc.err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/orders/"+orderID.String()+"/finalize", nil))
		assert.Equal(s.T(), tc.expected, w.Code, fmt.Sprintf("case %d", i))
	}
}

func (s *CheckoutHandlerSuite) TestHandleMalformedBody() {
	_, router := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodPost, "/checkout/orders", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}
