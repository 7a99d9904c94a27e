package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/shoken-receipts-backend/internal/api/middleware"
	"github.com/ndewijer/shoken-receipts-backend/internal/config"
	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
	"github.com/ndewijer/shoken-receipts-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	sessionService *service.SessionService,
	receiptService *service.ReceiptService,
	stockService *service.StockService,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.RequestLogger(log, m))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Method(http.MethodGet, "/metrics", m.Handler())

	rateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Handler)

		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/session", func(r chi.Router) {
			sessionHandler := handlers.NewSessionHandler(sessionService)
			receiptHandler := handlers.NewReceiptHandler(receiptService, cfg.Import.MaxUploadBytes)

			r.Post("/", sessionHandler.CreateSession)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", sessionHandler.GetSession)
				r.Post("/verify", sessionHandler.VerifyAuthCode)
				r.Get("/imports", receiptHandler.Imports)

				r.Route("/receipts/{kind}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateKindMiddleware)
					r.Get("/", receiptHandler.Receipts)
					r.Post("/", receiptHandler.Import)
				})
			})
		})

		r.Route("/stock", func(r chi.Router) {
			stockHandler := handlers.NewStockHandler(stockService)
			r.Get("/{query}", stockHandler.Lookup)
		})
	})

	return r
}
