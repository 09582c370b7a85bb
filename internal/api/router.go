package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/metrics"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	ledger *service.LedgerService,
	systemService *service.SystemService,
	verifier custommiddleware.TokenVerifier,
	m *metrics.Metrics,
	log *zap.Logger,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/contract", func(r chi.Router) {
			contractHandler := handlers.NewContractHandler(ledger)
			r.Get("/stats", contractHandler.Stats)
		})

		// Everything below acts on behalf of the token's principal
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Authenticate(verifier))

			r.Route("/portfolio", func(r chi.Router) {
				portfolioHandler := handlers.NewPortfolioHandler(ledger)
				r.Get("/", portfolioHandler.Portfolios)
				r.Post("/", portfolioHandler.CreatePortfolio)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(custommiddleware.ValidatePortfolioIDMiddleware)
					r.Get("/", portfolioHandler.Portfolio)
					r.Post("/deposit", portfolioHandler.Deposit)
					r.Post("/withdraw", portfolioHandler.Withdraw)
					r.Post("/rebalance", portfolioHandler.Rebalance)
					r.Put("/auto-rebalance", portfolioHandler.AutoRebalance)
					r.Get("/fee", portfolioHandler.Fee)
					r.Get("/events", portfolioHandler.Events)
					r.Post("/analytics", portfolioHandler.Analytics)
				})
			})

			r.Route("/account", func(r chi.Router) {
				accountHandler := handlers.NewAccountHandler(ledger)
				r.Get("/balance", accountHandler.Balance)
			})

			r.Route("/admin", func(r chi.Router) {
				adminHandler := handlers.NewAdminHandler(ledger)
				r.Put("/pause", adminHandler.Pause)
				r.Put("/fee", adminHandler.Fee)
				r.Post("/fund", adminHandler.Fund)
				r.Post("/blocks", adminHandler.Advance)
			})
		})
	})

	return r
}
