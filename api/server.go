/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. CORS:        Cross-origin requests for the form frontend
  2. RequestLog:  httplog request logging (ECS schema)
  3. RequestID:   Unique ID per request for tracing
  4. Recoverer:   Panic recovery (500 instead of crash)
  5. Heartbeat:   GET /healthz for load balancers

ROUTE GROUPS:
  /api/form, /api/period    Form defaults
  /api/estimates            Estimate computation
  /api/holidays             Holiday listing
  /api/closures/*           Company closure admin

AUTHENTICATION:
  When Options.Auth is set, every /api route requires a bearer token
  signed with the configured secret. The token subject becomes the
  report's user ID. Without it all endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Token checks
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Options configures the router.
type Options struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string

	// Auth enables bearer-token authentication. Nil disables it.
	Auth *jwtauth.JWTAuth
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = h.Logger
	}

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))

	// API routes
	r.Route("/api", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(jwtauth.Verifier(opts.Auth))
			r.Use(AuthRequired)
		}

		r.Get("/form", h.GetForm)
		r.Get("/period", h.GetPeriod)
		r.Post("/estimates", h.CreateEstimate)
		r.Get("/holidays", h.ListHolidays)

		r.Route("/closures", func(r chi.Router) {
			r.Get("/", h.ListClosures)
			r.Post("/", h.CreateClosure)
			r.Get("/{id}", h.GetClosure)
			r.Delete("/{id}", h.DeleteClosure)
		})
	})

	return r
}
