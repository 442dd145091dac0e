package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
	// AdminToken enables the admin routes when non-empty.
	AdminToken string
}

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(h *HandlerProvider, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", adminTokenHeader},
		MaxAge:         300,
	}))

	r.Get("/", h.RootHandler)
	r.Get("/healthz", h.HealthzHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/user/{userID}", h.GetUserHandler)
		r.Get("/user/{userID}/profile", h.GetProfileHandler)
		r.Get("/user/{userID}/keys", h.GetKeysHandler)

		r.Get("/key/price", h.GetPriceHandler)
		r.Post("/buy/key", h.BuyKeyHandler)

		r.Post("/payment/create", h.CreatePaymentHandler)
		r.Get("/payment/check/{code}/{userID}", h.CheckPaymentHandler)

		r.Get("/stats", h.GetStatsHandler)

		if cfg.AdminToken != "" {
			r.Group(func(r chi.Router) {
				r.Use(adminOnly(cfg.AdminToken))

				r.Post("/admin/payment/{code}/confirm", h.ConfirmPaymentHandler)
				r.Get("/admin/payments/pending", h.ListPendingHandler)
			})
		}
	})

	return r
}
