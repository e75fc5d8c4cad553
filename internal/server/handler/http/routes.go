// Package http provides HTTP routing and handlers for the settlement
// user-data service.
package http

import (
	"net/http"

	"github.com/avdeyev/SettlementKeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// settlement user-data API. It applies JSON content-type enforcement,
// request logging, and bearer-token authentication, and mounts the
// registration and user-data endpoints under /api.
//
// Routes:
//
//	POST   /api/register                              → authHandler.Register
//	GET    /api/users/{login}/userdata                → userDataHandler.List
//	GET    /api/users/{login}/userdata/{settlementID} → userDataHandler.Get
//	PUT    /api/users/{login}/userdata/{settlementID} → userDataHandler.Save
//	DELETE /api/users/{login}/userdata/{settlementID} → userDataHandler.Delete
//
// Everything under /api/users requires a valid bearer token whose
// account matches {login}.
func NewRouter(
	authHandler *AuthHandler,
	userDataHandler *UserDataHandler,
	validator middleware.TokenValidator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoint
		r.Post("/register", authHandler.Register)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.TokenAuth(validator))
			r.Route("/users/{login}/userdata", func(r chi.Router) {
				r.Get("/", userDataHandler.List)
				r.Get("/{settlementID}", userDataHandler.Get)
				r.Put("/{settlementID}", userDataHandler.Save)
				r.Delete("/{settlementID}", userDataHandler.Delete)
			})
		})
	})

	return r
}
