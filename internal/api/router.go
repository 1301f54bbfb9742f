package api

import (
	"net/http"
	_ "presale/docs"
	"presale/internal/presale/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

// NewRouter mounts the presale API. Mutating routes pass the rate limiter
// and then signature verification.
func NewRouter(h *handler.Handler, limiter, verifier func(http.Handler) http.Handler, metrics http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	router.Method(http.MethodGet, "/metrics", metrics)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/presale/info", h.GetInfo)
		r.Get("/presale/pay-tokens", h.GetPayTokens)
		r.Get("/presale/pay-tokens/{currency}", h.GetPayToken)
		r.Get("/presale/quote", h.GetQuote)
		r.Get("/ledger/balances/{token}/{holder}", h.GetBalance)

		r.Group(func(r chi.Router) {
			r.Use(limiter, verifier)
			r.Post("/presale/buy", h.Buy)
			r.Post("/ledger/approve", h.Approve)
			r.Post("/admin/pay-tokens", h.AddPayToken)
			r.Post("/admin/withdraw", h.Withdraw)
			r.Post("/admin/ownership", h.TransferOwnership)
			r.Post("/admin/upgrade", h.Upgrade)
		})
	})
	return router
}
