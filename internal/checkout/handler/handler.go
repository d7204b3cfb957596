package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"botilleria/internal/checkout"
	"botilleria/internal/compliance"
	id "botilleria/pkg/domain"
	"botilleria/pkg/platform/httputil"
	"botilleria/pkg/requestcontext"
)

// Service defines the interface for checkout operations.
type Service interface {
	Create(ctx context.Context, customer checkout.Customer) (*checkout.Order, error)
	Get(ctx context.Context, orderID id.OrderID) (*checkout.Order, error)
	SetShipping(ctx context.Context, orderID id.OrderID, address compliance.ShippingAddress, deliveryTime string) (*checkout.Order, error)
	SetItems(ctx context.Context, orderID id.OrderID, items []compliance.LineItem) (*checkout.Order, error)
	Evaluate(ctx context.Context, orderID id.OrderID) (*checkout.Order, error)
	Acknowledge(ctx context.Context, orderID id.OrderID, restrictionType compliance.RestrictionType) (*checkout.Order, error)
	Finalize(ctx context.Context, orderID id.OrderID) (*checkout.Order, error)
}

// Handler wires checkout endpoints to the checkout service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a checkout handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts checkout endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/checkout/orders", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/shipping", h.HandleSetShipping)
			r.Put("/items", h.HandleSetItems)
			r.Post("/evaluate", h.HandleEvaluate)
			r.Post("/acknowledge", h.HandleAcknowledge)
			r.Post("/finalize", h.HandleFinalize)
		})
	})
}

// HandleCreate handles POST /checkout/orders requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateOrderRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	order, err := h.service.Create(ctx, req.ToCustomer())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "checkout order created",
		"request_id", requestID,
		"order_id", order.ID,
		"session_id", order.SessionID,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromOrder(order))
}

// HandleGet handles GET /checkout/orders/{orderID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.withOrder(w, r, h.service.Get)
}

// HandleSetShipping handles PUT /checkout/orders/{orderID}/shipping requests.
func (h *Handler) HandleSetShipping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetShippingRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	order, err := h.service.SetShipping(ctx, orderID, req.ToAddress(), req.DeliveryTime)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order))
}

// HandleSetItems handles PUT /checkout/orders/{orderID}/items requests.
func (h *Handler) HandleSetItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetItemsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	order, err := h.service.SetItems(ctx, orderID, req.ToItems())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order))
}

// HandleEvaluate handles POST /checkout/orders/{orderID}/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	h.withOrder(w, r, h.service.Evaluate)
}

// HandleAcknowledge handles POST /checkout/orders/{orderID}/acknowledge
// requests.
func (h *Handler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AcknowledgeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	order, err := h.service.Acknowledge(ctx, orderID, req.ParsedType())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order))
}

// HandleFinalize handles POST /checkout/orders/{orderID}/finalize requests.
func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Finalize(ctx, orderID)
	if err != nil {
		h.logger.WarnContext(ctx, "order placement rejected",
			"request_id", requestcontext.RequestID(ctx),
			"order_id", orderID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "order placed",
		"request_id", requestcontext.RequestID(ctx),
		"order_id", order.ID,
	)
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order))
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (id.OrderID, bool) {
	orderID, err := id.ParseOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.OrderID{}, false
	}
	return orderID, true
}

func (h *Handler) withOrder(w http.ResponseWriter, r *http.Request, op func(context.Context, id.OrderID) (*checkout.Order, error)) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := op(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order))
}
