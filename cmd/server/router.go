package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lburgess/aftlab/internal/api"
	"github.com/lburgess/aftlab/internal/api/middleware"
)

// setupRouter configures the HTTP routes and middleware chain.
func (app *application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	datasetHandler := api.NewDatasetHandler(app.datasetService, app.fitService)
	fitHandler := api.NewFitHandler(app.fitService)
	convertHandler := api.NewConvertHandler()
	simulateHandler := api.NewSimulateHandler()
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Conversions are pure computations and need no account.
		r.Post("/lognormal/params", convertHandler.Params)
		r.Post("/lognormal/moments", convertHandler.Moments)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/datasets", datasetHandler.Create)
			r.Get("/datasets", datasetHandler.List)
			r.Get("/datasets/{id}", datasetHandler.Get)
			r.Get("/datasets/{id}/fits", datasetHandler.ListFits)
			r.Get("/fits/{id}", fitHandler.Get)
			r.Post("/simulate", simulateHandler.Run)
		})
	})

	return r
}
