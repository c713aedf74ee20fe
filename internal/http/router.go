package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/fluxo/internal/http/auth"
	"github.com/MrJamesThe3rd/fluxo/internal/http/authn"
	"github.com/MrJamesThe3rd/fluxo/internal/http/importcsv"
	"github.com/MrJamesThe3rd/fluxo/internal/http/report"
	"github.com/MrJamesThe3rd/fluxo/internal/http/transaction"
)

type Handlers struct {
	Auth         *auth.Handler
	Transactions *transaction.Handler
	Reports      *report.Handler
	Import       *importcsv.Handler
}

func New(allowedOrigins []string, verifier authn.Verifier, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware(verifier))

			r.Get("/me", h.Auth.Me)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/import", h.Import.Routes)

			h.Reports.Routes(r)
		})
	})

	return router
}
