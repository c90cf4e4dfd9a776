package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/quillgate/quillgate/internal/config"
	"github.com/quillgate/quillgate/internal/handler"
	"github.com/quillgate/quillgate/internal/metrics"
	"github.com/quillgate/quillgate/internal/middleware"
)

type routerDeps struct {
	cfg        *config.Config
	logger     *slog.Logger
	root       *handler.Handler
	health     *handler.HealthHandler
	metrics    metrics.Snapshotter
	users      *handler.UserHandler
	generation *handler.GenerationHandler
	verifier   middleware.TokenVerifier
	emitter    middleware.MetricsEmitter
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Telemetry(d.emitter))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(d.cfg.GetCORSAllowedOrigins())))

	r.Get("/", d.root.Hello)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	if d.metrics != nil {
		r.Get("/metrics", handler.NewMetricsHandler(d.metrics).Metrics)
	}

	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", d.users.Signup)
		r.Post("/login", d.users.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{Logger: d.logger, Verifier: d.verifier}))

		r.Post("/generate_social_media_ad", d.generation.SocialMediaAd)
		r.Post("/generate_blog_post", d.generation.BlogPost)
		r.Post("/generate_email_campaign", d.generation.EmailCampaign)
	})

	r.NotFound(d.root.NotFound)
	r.MethodNotAllowed(d.root.MethodNotAllowed)

	return r
}
