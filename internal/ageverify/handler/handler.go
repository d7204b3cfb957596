package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"botilleria/internal/ageverify"
	id "botilleria/pkg/domain"
	"botilleria/pkg/platform/httputil"
	"botilleria/pkg/requestcontext"
)

// Service defines the interface for age-verification operations.
type Service interface {
	Verify(ctx context.Context, input ageverify.VerifyInput) (*ageverify.VerificationRecord, error)
	Decline(ctx context.Context) (*ageverify.VerificationRecord, error)
	Status(ctx context.Context) (ageverify.Status, error)
	RecordClientAttempt(ctx context.Context, attempt ageverify.ClientAttempt) error
}

// TokenIssuer mints signed proof of a passed gate for storefront surfaces
// that cannot reach the session store. Optional.
type TokenIssuer interface {
	GenerateVerificationToken(sessionID id.SessionID, method string, expiresIn time.Duration) (string, error)
}

// Handler wires age-gate endpoints to the verification service.
type Handler struct {
	service Service
	issuer  TokenIssuer
	logger  *slog.Logger
	ttl     time.Duration
}

// New constructs an age-gate handler. ttl is the verification validity
// window, used to report expiry times to the storefront. issuer may be nil
// when no signing key is configured.
func New(service Service, issuer TokenIssuer, logger *slog.Logger, ttl time.Duration) *Handler {
	if ttl <= 0 {
		ttl = ageverify.DefaultRecordTTL
	}
	return &Handler{
		service: service,
		issuer:  issuer,
		logger:  logger,
		ttl:     ttl,
	}
}

// Register mounts age-gate endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/age/verify", h.HandleVerify)
	r.Post("/age/decline", h.HandleDecline)
	r.Get("/age/status", h.HandleStatus)
	r.Post("/api/compliance/age-verification", h.HandleComplianceLog)
}

// HandleVerify handles POST /age/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Verify(ctx, ageverify.VerifyInput{
		BirthDate: req.BirthDate,
		Method:    req.ParsedMethod(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "age verification rejected",
			"request_id", requestID,
			"session_id", requestcontext.SessionID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "age verification succeeded",
		"request_id", requestID,
		"session_id", record.SessionID,
		"method", record.Method,
	)

	resp := verifyResponseFrom(record, ageverify.StateVerified, h.ttl)
	if h.issuer != nil {
		token, err := h.issuer.GenerateVerificationToken(record.SessionID, string(record.Method), h.ttl)
		if err != nil {
			// The verification itself already succeeded; the token is an
			// optional extra.
			h.logger.WarnContext(ctx, "failed to mint verification token",
				"request_id", requestID,
				"error", err.Error(),
			)
		} else {
			resp.Token = token
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleDecline handles POST /age/decline requests.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, err := h.service.Decline(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "age verification declined",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", record.SessionID,
	)
	httputil.WriteJSON(w, http.StatusOK, verifyResponseFrom(record, ageverify.StateDeclined, h.ttl))
}

// HandleStatus handles GET /age/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.service.Status(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponseFrom(status, h.ttl))
}

// HandleComplianceLog handles POST /api/compliance/age-verification, the
// storefront's server-side logging hook for gate interactions it handled
// locally.
func (h *Handler) HandleComplianceLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ComplianceLogRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	err := h.service.RecordClientAttempt(ctx, ageverify.ClientAttempt{
		Method:    req.ParsedMethod(),
		Success:   req.Success,
		Reason:    req.Reason,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ComplianceLogResponse{
		Success:    true,
		Logged:     true,
		Compliance: ComplianceReference,
	})
}
