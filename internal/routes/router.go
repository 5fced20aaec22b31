package routes

import (
	"net/http"
	"time"

	"carclub/paddock/internal/api"
	"carclub/paddock/internal/auth"
	"carclub/paddock/internal/logging"
	"carclub/paddock/internal/metrics"
	"carclub/paddock/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries everything the router needs from main.
type Options struct {
	Deps        *api.Dependencies
	Tokens      *auth.TokenProvider
	Metrics     *metrics.MetricsRegistry
	Gatherer    prometheus.Gatherer
	RateLimiter *middleware.RateLimiter
	Health      map[string]api.Pinger
	UpSince     time.Time
}

func RegisterRoutes(opts Options) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Logging)
	r.Use(middleware.MetricsMiddleware(opts.Metrics))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(opts.Health, opts.UpSince))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	handlers := api.NewHandlers(opts.Deps)
	RegisterAPIRoutes(r, opts.Tokens, opts.Deps, handlers)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
