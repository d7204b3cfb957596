// Package httptransport assembles the HTTP surface: middleware chain, health
// and metrics endpoints, and the feature handler routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminapi "botilleria/internal/admin"
	ageverifyhandler "botilleria/internal/ageverify/handler"
	checkouthandler "botilleria/internal/checkout/handler"
	compliancehandler "botilleria/internal/compliance/handler"
	"botilleria/internal/platform/middleware"
	adminauth "botilleria/pkg/platform/middleware/admin"
	"botilleria/pkg/platform/middleware/metadata"
	"botilleria/pkg/platform/middleware/requesttime"
)

// Config carries the handlers and settings the router composes. Nil handlers
// are skipped so tests can wire a subset.
type Config struct {
	Logger *slog.Logger

	AgeVerify  *ageverifyhandler.Handler
	Compliance *compliancehandler.Handler
	Checkout   *checkouthandler.Handler
	Admin      *adminapi.Handler

	// AdminUser and AdminPasswordHash guard the admin routes. An empty hash
	// leaves them unregistered.
	AdminUser         string
	AdminPasswordHash string

	RequestTimeout time.Duration
}

// NewRouter builds the full HTTP handler tree.
func NewRouter(cfg Config) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.BrowsingSession)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if cfg.AgeVerify != nil {
		cfg.AgeVerify.Register(r)
	}
	if cfg.Compliance != nil {
		cfg.Compliance.Register(r)
	}
	if cfg.Checkout != nil {
		cfg.Checkout.Register(r)
	}
	if cfg.Admin != nil && cfg.AdminPasswordHash != "" {
		r.Group(func(g chi.Router) {
			g.Use(adminauth.RequireAdmin(cfg.AdminUser, cfg.AdminPasswordHash, cfg.Logger))
			cfg.Admin.Register(g)
		})
	}

	return r
}
