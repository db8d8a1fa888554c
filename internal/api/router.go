package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pointspay/ledger-backend/internal/api/handlers"
	"github.com/pointspay/ledger-backend/internal/config"
	"github.com/pointspay/ledger-backend/internal/middleware"
	"github.com/pointspay/ledger-backend/internal/services"
)

func NewRouter(cfg config.Config, us *services.UserService, ls *services.LedgerService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	uh := handlers.NewUserHandler(us)
	lh := handlers.NewLedgerHandler(ls)

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- users ----------
		r.Post("/users", uh.Create)
		r.Get("/users", uh.List)
		r.Get("/users/{id}/balance", uh.Balance)
		r.Get("/users/{id}/transactions", lh.History)

		// ---------- transactions ----------
		r.Post("/transactions", lh.Transfer)
		r.Get("/transactions/{id}", lh.Get)

		// ---------- deposits ----------
		r.Post("/deposits", lh.Deposit)

		// ---------- rewards (gated) ----------
		if cfg.RewardsEnabled {
			r.Get("/users/{id}/points", uh.Points)
			r.Post("/points/redeem", lh.Redeem)
		}
	})

	return r
}
