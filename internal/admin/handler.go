// Package admin exposes the compliance trail to operators. Read-only; events
// are written exclusively through the audit publisher.
package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	id "botilleria/pkg/domain"
	"botilleria/pkg/platform/audit"
	"botilleria/pkg/platform/httputil"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Handler serves the compliance log listing endpoints.
type Handler struct {
	store  audit.Store
	logger *slog.Logger
}

// New constructs an admin handler over the given audit store.
func New(store audit.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Register mounts the compliance log endpoints. The caller is responsible for
// wrapping the router with operator authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/compliance-log", h.HandleListRecent)
	r.Get("/admin/compliance-log/sessions/{sessionID}", h.HandleListBySession)
}

// EventResponse is the HTTP representation of one audit event.
type EventResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	Action        string    `json:"action"`
	Method        string    `json:"method,omitempty"`
	Success       bool      `json:"success"`
	Reason        string    `json:"reason,omitempty"`
	MinimumAge    int       `json:"minimum_age,omitempty"`
	BirthDateHash string    `json:"birth_date_hash,omitempty"`
	ClientIP      string    `json:"client_ip,omitempty"`
	Browser       string    `json:"browser,omitempty"`
	OS            string    `json:"os,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
}

// ListResponse wraps a page of audit events.
type ListResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

// HandleListRecent handles GET /admin/compliance-log requests. The optional
// limit query parameter is clamped to [1, 500].
func (h *Handler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, map[string]string{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	events, err := h.store.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "compliance log listing failed", "error", err.Error())
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponseFrom(events))
}

// HandleListBySession handles
// GET /admin/compliance-log/sessions/{sessionID} requests.
func (h *Handler) HandleListBySession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.store.ListBySession(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "compliance log session lookup failed",
			"session_id", sessionID,
			"error", err.Error(),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponseFrom(events))
}

func listResponseFrom(events []audit.Event) ListResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{
			Timestamp:     e.Timestamp,
			SessionID:     e.SessionID.String(),
			Action:        string(e.Action),
			Method:        e.Method,
			Success:       e.Success,
			Reason:        e.Reason,
			MinimumAge:    e.MinimumAge,
			BirthDateHash: e.BirthDateHash,
			ClientIP:      e.ClientIP,
			Browser:       e.Browser,
			OS:            e.OS,
			RequestID:     e.RequestID,
		})
	}
	return ListResponse{Events: out, Count: len(out)}
}
