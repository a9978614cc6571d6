package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/internal/service"
	"github.com/CarterPerez-dev/my-portfolio/pkg/health"
	"github.com/CarterPerez-dev/my-portfolio/pkg/middleware"
)

// RouterConfig carries the HTTP-layer settings the router needs.
type RouterConfig struct {
	CORS              middleware.CORSConfig
	PprofAllowedCIDRs []string
	PublicCacheMaxAge int
}

// NewRouter creates a chi router with all portfolio API routes registered.
func NewRouter(
	sessions *service.SessionService,
	portfolio *service.PortfolioService,
	search *service.SearchService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("portfolio"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("portfolio"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Profiling endpoints, restricted by CIDR allowlist
	if len(cfg.PprofAllowedCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)
	}

	// Verifier that bridges the session service to the auth middleware.
	verifier := func(ctx context.Context, token string) (*middleware.Principal, error) {
		claims, err := sessions.VerifyAccessToken(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Principal{UserID: claims.UserID, Role: claims.Role}, nil
	}

	authHandler := NewAuthHandler(sessions, logger)

	// Session endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)

		// Session endpoints that need an authenticated caller
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier))

			r.Get("/me", authHandler.Me)
			r.Post("/logout-all", authHandler.LogoutAll)
			r.Post("/change-password", authHandler.ChangePassword)
		})
	})

	// Public content endpoints
	contentHandler := NewContentHandler(portfolio, logger)
	searchHandler := NewSearchHandler(search, logger)

	r.Group(func(r chi.Router) {
		if cfg.PublicCacheMaxAge > 0 {
			r.Use(middleware.CacheControl(cfg.PublicCacheMaxAge))
		}

		r.Get("/api/v1/projects", contentHandler.ListProjects)
		r.Get("/api/v1/projects/{slug}", contentHandler.GetProject)
		r.Get("/api/v1/experiences", contentHandler.ListExperiences)
		r.Get("/api/v1/certifications", contentHandler.ListCertifications)
		r.Get("/api/v1/blogs", contentHandler.ListBlogs)
		r.Get("/api/v1/search", searchHandler.Search)
	})

	// Admin content management endpoints
	adminHandler := NewAdminHandler(portfolio, logger)

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(verifier))
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Post("/projects", adminHandler.CreateProject)
		r.Put("/projects/{id}", adminHandler.UpdateProject)
		r.Delete("/projects/{id}", adminHandler.DeleteProject)

		r.Get("/experiences", adminHandler.ListExperiences)
		r.Post("/experiences", adminHandler.CreateExperience)
		r.Put("/experiences/{id}", adminHandler.UpdateExperience)
		r.Delete("/experiences/{id}", adminHandler.DeleteExperience)

		r.Get("/certifications", adminHandler.ListCertifications)
		r.Post("/certifications", adminHandler.CreateCertification)
		r.Put("/certifications/{id}", adminHandler.UpdateCertification)
		r.Delete("/certifications/{id}", adminHandler.DeleteCertification)

		r.Get("/blogs", adminHandler.ListBlogs)
		r.Post("/blogs", adminHandler.CreateBlog)
		r.Put("/blogs/{id}", adminHandler.UpdateBlog)
		r.Delete("/blogs/{id}", adminHandler.DeleteBlog)
	})

	return r
}
