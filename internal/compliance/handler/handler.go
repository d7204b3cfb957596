package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"botilleria/internal/compliance"
	"botilleria/pkg/platform/httputil"
	"botilleria/pkg/requestcontext"
)

// Service defines the interface for compliance operations.
type Service interface {
	Check(ctx context.Context, input compliance.CheckInput) (*compliance.Verdict, error)
	SummarizeCart(ctx context.Context, lines []compliance.LineItem) (*compliance.CartSummary, error)
}

// Handler wires the compliance check endpoint to the compliance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a compliance handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts compliance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/compliance/check", h.HandleCheck)
	r.Post("/compliance/cart-summary", h.HandleCartSummary)
}

// HandleCheck handles POST /compliance/check requests. The verdict is
// returned with HTTP 200 whether or not the order is compliant; the outcome
// lives in the body, not the status code.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	verdict, err := h.service.Check(ctx, req.ToInput())
	if err != nil {
		h.logger.WarnContext(ctx, "compliance check failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "compliance check evaluated",
		"request_id", requestID,
		"session_id", requestcontext.SessionID(ctx),
		"compliant", verdict.Compliant,
		"restrictions", len(verdict.Restrictions),
	)
	httputil.WriteJSON(w, http.StatusOK, verdict)
}

// HandleCartSummary handles POST /compliance/cart-summary requests.
func (h *Handler) HandleCartSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CartSummaryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	summary, err := h.service.SummarizeCart(ctx, req.ToItems())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
