// Package web serves the follower map over HTTP: the input form, the
// rendered map, and the failure notice.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/follower-map/internal/metrics"
	"github.com/sells-group/follower-map/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// MapBuilder produces a rendered follower map for one request.
type MapBuilder interface {
	Build(ctx context.Context, screenName, bearerToken string) (*pipeline.Map, error)
}

// Server holds the handlers and their dependencies.
type Server struct {
	builder     MapBuilder
	corsOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithCORSOrigins enables CORS for the given origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// NewServer creates a Server backed by the given map builder.
func NewServer(builder MapBuilder, opts ...Option) *Server {
	s := &Server{builder: builder}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes returns the HTTP handler with all routes and middleware mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{headerMapID, headerFollowerStatus},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handleIndex)
	r.Post("/register", s.handleRegister)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
