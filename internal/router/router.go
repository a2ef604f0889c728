package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/GregMSThompson/devpay-backend/internal/handlers"
	"github.com/GregMSThompson/devpay-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(deps.AllowedOrigins))

	hh := handlers.NewHealthHandlers(deps)
	ph := handlers.NewPaymentHandlers(deps)
	dh := handlers.NewDeveloperHandlers(deps)
	gh := handlers.NewGitHubHandlers(deps)
	oh := handlers.NewOneDriveHandlers(deps)

	r.Mount("/auth", oh.AuthRoutes())
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", hh.Health)

		r.Group(func(r chi.Router) {
			if deps.Firebase != nil {
				r.Use(middleware.NewMiddleware(deps.Firebase).FirebaseAuth)
			}
			r.Mount("/payments", ph.PaymentRoutes())
			r.Mount("/developers", dh.DeveloperRoutes())
			r.Mount("/onedrive", oh.OneDriveRoutes())
			r.Post("/github/issue", gh.CreateIssue)
			r.Get("/workload", gh.GetWorkload)
			r.Get("/team", gh.GetTeam)
		})
	})
	return r
}

// corsHandler allows every origin when none are configured.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: len(origins) > 0,
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
	} else {
		opts.AllowedOrigins = []string{"*"}
	}
	return cors.New(opts).Handler
}
