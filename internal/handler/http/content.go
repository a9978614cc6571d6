package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/internal/service"
	"github.com/CarterPerez-dev/my-portfolio/pkg/httputil"
	"github.com/CarterPerez-dev/my-portfolio/pkg/pagination"
)

// ContentHandler serves the public read-only portfolio endpoints.
type ContentHandler struct {
	portfolio *service.PortfolioService
	logger    *slog.Logger
}

// NewContentHandler creates a new public content HTTP handler.
func NewContentHandler(portfolio *service.PortfolioService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{portfolio: portfolio, logger: logger}
}

// languageParam reads the requested content language from the query string.
// Unknown or missing codes fall back to English downstream.
func languageParam(r *http.Request) string {
	return r.URL.Query().Get("language")
}

// ListProjects handles GET /api/v1/projects
func (h *ContentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	featured, _ := strconv.ParseBool(r.URL.Query().Get("featured"))

	projects, total, err := h.portfolio.ListProjects(r.Context(), languageParam(r), featured, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(projects, total, params.Page, params.PerPage))
}

// GetProject handles GET /api/v1/projects/{slug}
func (h *ContentHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, err := h.portfolio.GetProjectBySlug(r.Context(), slug, languageParam(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: project})
}

// ListExperiences handles GET /api/v1/experiences
func (h *ContentHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.portfolio.ListExperiences(r.Context(), languageParam(r), false)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: experiences})
}

// ListCertifications handles GET /api/v1/certifications
func (h *ContentHandler) ListCertifications(w http.ResponseWriter, r *http.Request) {
	certifications, err := h.portfolio.ListCertifications(r.Context(), languageParam(r), false)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: certifications})
}

// ListBlogs handles GET /api/v1/blogs
func (h *ContentHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	blogs, total, err := h.portfolio.ListBlogs(r.Context(), languageParam(r), false, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(blogs, total, params.Page, params.PerPage))
}

// SearchHandler serves the full-text content search endpoint.
type SearchHandler struct {
	search *service.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(search *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{search: search, logger: logger}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.search.Search(r.Context(), query, languageParam(r), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if results == nil {
		results = []domain.SearchResult{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: results})
}
