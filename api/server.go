/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Structured request logging (httplog, ECS schema)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests from the payroll frontend
  5. Heartbeat:  GET /health for load balancers

ROUTES:
  POST /holiday              CSV body, ?holiday=YYYY-MM-DD
  POST /api/holiday          CSV body as above, or a JSON HolidayRequest
  POST /api/holiday/xlsx     XLSX body, XLSX response
  GET  /api/rules            Active rule set

SECURITY NOTE:
  No authentication middleware. Put the service behind the payroll
  gateway.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{HeaderApprovalNames, HeaderRunID, "Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(middleware.Heartbeat("/health"))

	// Kept at the root for callers of the first release.
	r.Post("/holiday", h.CalculateHoliday)

	r.Route("/api", func(r chi.Router) {
		r.Post("/holiday", h.CalculateHoliday)
		r.Post("/holiday/xlsx", h.CalculateHolidayXLSX)
		r.Get("/rules", h.GetRules)
	})

	return r
}
