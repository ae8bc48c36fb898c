package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ins72/meway-revenue/internal/adapter/http/handler"
	"github.com/ins72/meway-revenue/internal/adapter/http/middleware"
	"github.com/ins72/meway-revenue/internal/infrastructure/auth"
	"github.com/ins72/meway-revenue/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SaleHandler           *handler.SaleHandler
	BalanceHandler        *handler.BalanceHandler
	PayoutHandler         *handler.PayoutHandler
	AnalyticsHandler      *handler.AnalyticsHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	RateLimiter           *middleware.RateLimiter
	JWTManager            *auth.JWTManager
	AuthEnabled           bool
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthEnabled && cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		} else if cfg.JWTManager != nil {
			r.Use(middleware.OptionalAuth(cfg.JWTManager))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Sales
		r.Route("/sales", func(r chi.Router) {
			r.Post("/", cfg.SaleHandler.Record)
			r.Get("/{id}", cfg.SaleHandler.Get)

			if cfg.AuthEnabled {
				r.With(middleware.RequireRefund).Post("/{id}/refund", cfg.SaleHandler.Refund)
			} else {
				r.Post("/{id}/refund", cfg.SaleHandler.Refund)
			}
		})

		// Sellers
		r.Route("/sellers", func(r chi.Router) {
			r.Get("/{id}/balance", cfg.BalanceHandler.Get)
			r.Get("/{id}/sales", cfg.SaleHandler.ListBySeller)
			r.Get("/{id}/summary", cfg.AnalyticsHandler.SellerSummary)
			r.Get("/{id}/reconciliation", cfg.ReconciliationHandler.Seller)
		})

		// Balances
		r.Get("/balances", cfg.BalanceHandler.List)

		// Payouts
		r.Route("/payouts", func(r chi.Router) {
			if cfg.AuthEnabled {
				r.With(middleware.RequireDisburse).Post("/", cfg.PayoutHandler.Create)
				r.With(middleware.RequireDisburse).Put("/{id}/status", cfg.PayoutHandler.Process)
			} else {
				r.Post("/", cfg.PayoutHandler.Create)
				r.Put("/{id}/status", cfg.PayoutHandler.Process)
			}
			r.Get("/", cfg.PayoutHandler.List)
			r.Get("/{id}", cfg.PayoutHandler.Get)
		})

		// Analytics
		r.Get("/analytics/marketplace", cfg.AnalyticsHandler.MarketplaceSummary)

		// Reconciliation
		r.Post("/reconciliation", cfg.ReconciliationHandler.Run)
	})

	return r
}
