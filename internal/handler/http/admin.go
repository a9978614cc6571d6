package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/internal/service"
	"github.com/CarterPerez-dev/my-portfolio/pkg/httputil"
	"github.com/CarterPerez-dev/my-portfolio/pkg/pagination"
	"github.com/CarterPerez-dev/my-portfolio/pkg/validator"
)

// AdminHandler handles the authenticated content management endpoints.
type AdminHandler struct {
	portfolio *service.PortfolioService
	logger    *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(portfolio *service.PortfolioService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{portfolio: portfolio, logger: logger}
}

// --- Request DTOs ---

// ProjectRequest is the JSON request body for creating or replacing a project.
type ProjectRequest struct {
	Slug             string     `json:"slug" validate:"required,min=1,max=255"`
	Language         string     `json:"language" validate:"omitempty,max=5"`
	Title            string     `json:"title" validate:"required,min=1,max=255"`
	Subtitle         string     `json:"subtitle" validate:"omitempty,max=500"`
	Description      string     `json:"description" validate:"required"`
	TechnicalDetails string     `json:"technical_details"`
	TechStack        []string   `json:"tech_stack"`
	GitHubURL        string     `json:"github_url" validate:"omitempty,url"`
	DemoURL          string     `json:"demo_url" validate:"omitempty,url"`
	WebsiteURL       string     `json:"website_url" validate:"omitempty,url"`
	DocsURL          string     `json:"docs_url" validate:"omitempty,url"`
	ThumbnailURL     string     `json:"thumbnail_url" validate:"omitempty,url"`
	BannerURL        string     `json:"banner_url" validate:"omitempty,url"`
	Screenshots      []string   `json:"screenshots"`
	StarsCount       *int       `json:"stars_count"`
	ForksCount       *int       `json:"forks_count"`
	Status           string     `json:"status" validate:"omitempty,max=50"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	DisplayOrder     int        `json:"display_order"`
	IsComplete       bool       `json:"is_complete"`
	IsFeatured       bool       `json:"is_featured"`
}

func (req *ProjectRequest) toDomain() *domain.Project {
	return &domain.Project{
		Slug:             req.Slug,
		Language:         req.Language,
		Title:            req.Title,
		Subtitle:         req.Subtitle,
		Description:      req.Description,
		TechnicalDetails: req.TechnicalDetails,
		TechStack:        req.TechStack,
		GitHubURL:        req.GitHubURL,
		DemoURL:          req.DemoURL,
		WebsiteURL:       req.WebsiteURL,
		DocsURL:          req.DocsURL,
		ThumbnailURL:     req.ThumbnailURL,
		BannerURL:        req.BannerURL,
		Screenshots:      req.Screenshots,
		StarsCount:       req.StarsCount,
		ForksCount:       req.ForksCount,
		Status:           req.Status,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		DisplayOrder:     req.DisplayOrder,
		IsComplete:       req.IsComplete,
		IsFeatured:       req.IsFeatured,
	}
}

// ExperienceRequest is the JSON request body for creating or replacing an
// experience entry.
type ExperienceRequest struct {
	Language         string     `json:"language" validate:"omitempty,max=5"`
	Company          string     `json:"company" validate:"required,min=1,max=255"`
	CompanyURL       string     `json:"company_url" validate:"omitempty,url"`
	Location         string     `json:"location" validate:"omitempty,max=255"`
	Role             string     `json:"role" validate:"required,min=1,max=255"`
	EmploymentType   string     `json:"employment_type" validate:"omitempty,max=50"`
	StartDate        time.Time  `json:"start_date" validate:"required"`
	EndDate          *time.Time `json:"end_date"`
	IsCurrent        bool       `json:"is_current"`
	Description      string     `json:"description" validate:"required"`
	Responsibilities []string   `json:"responsibilities"`
	Achievements     []string   `json:"achievements"`
	TechStack        []string   `json:"tech_stack"`
	DisplayOrder     int        `json:"display_order"`
	IsVisible        *bool      `json:"is_visible"`
}

func (req *ExperienceRequest) toDomain() *domain.Experience {
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}
	return &domain.Experience{
		Language:         req.Language,
		Company:          req.Company,
		CompanyURL:       req.CompanyURL,
		Location:         req.Location,
		Role:             req.Role,
		EmploymentType:   req.EmploymentType,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		IsCurrent:        req.IsCurrent,
		Description:      req.Description,
		Responsibilities: req.Responsibilities,
		Achievements:     req.Achievements,
		TechStack:        req.TechStack,
		DisplayOrder:     req.DisplayOrder,
		IsVisible:        visible,
	}
}

// CertificationRequest is the JSON request body for creating or replacing a
// certification.
type CertificationRequest struct {
	Language        string     `json:"language" validate:"omitempty,max=5"`
	Name            string     `json:"name" validate:"required,min=1,max=255"`
	Issuer          string     `json:"issuer" validate:"required,min=1,max=255"`
	IssuerURL       string     `json:"issuer_url" validate:"omitempty,url"`
	CredentialID    string     `json:"credential_id" validate:"omitempty,max=255"`
	VerificationURL string     `json:"verification_url" validate:"omitempty,url"`
	DateObtained    time.Time  `json:"date_obtained" validate:"required"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	BadgeImageURL   string     `json:"badge_image_url" validate:"omitempty,url"`
	Category        string     `json:"category" validate:"omitempty,max=100"`
	DisplayOrder    int        `json:"display_order"`
	IsVisible       *bool      `json:"is_visible"`
}

func (req *CertificationRequest) toDomain() *domain.Certification {
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}
	return &domain.Certification{
		Language:        req.Language,
		Name:            req.Name,
		Issuer:          req.Issuer,
		IssuerURL:       req.IssuerURL,
		CredentialID:    req.CredentialID,
		VerificationURL: req.VerificationURL,
		DateObtained:    req.DateObtained,
		ExpiryDate:      req.ExpiryDate,
		BadgeImageURL:   req.BadgeImageURL,
		Category:        req.Category,
		DisplayOrder:    req.DisplayOrder,
		IsVisible:       visible,
	}
}

// BlogRequest is the JSON request body for creating or replacing a blog
// reference.
type BlogRequest struct {
	Language        string     `json:"language" validate:"omitempty,max=5"`
	Title           string     `json:"title" validate:"required,min=1,max=255"`
	Description     string     `json:"description" validate:"required"`
	ExternalURL     string     `json:"external_url" validate:"required,url"`
	Category        string     `json:"category" validate:"omitempty,max=100"`
	Tags            []string   `json:"tags"`
	ThumbnailURL    string     `json:"thumbnail_url" validate:"omitempty,url"`
	PublishedDate   *time.Time `json:"published_date"`
	ReadTimeMinutes *int       `json:"read_time_minutes" validate:"omitempty"`
	DisplayOrder    int        `json:"display_order"`
	IsVisible       *bool      `json:"is_visible"`
	IsFeatured      bool       `json:"is_featured"`
}

func (req *BlogRequest) toDomain() *domain.Blog {
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}
	return &domain.Blog{
		Language:        req.Language,
		Title:           req.Title,
		Description:     req.Description,
		ExternalURL:     req.ExternalURL,
		Category:        req.Category,
		Tags:            req.Tags,
		ThumbnailURL:    req.ThumbnailURL,
		PublishedDate:   req.PublishedDate,
		ReadTimeMinutes: req.ReadTimeMinutes,
		DisplayOrder:    req.DisplayOrder,
		IsVisible:       visible,
		IsFeatured:      req.IsFeatured,
	}
}

// decodeRequest decodes and validates a JSON request body into dst.
// It writes the error response itself and reports whether decoding succeeded.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBodyError(w, err)
		return false
	}

	if err := validator.Validate(dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}

	return true
}

// pathID validates the {id} URL parameter as a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return "", false
	}
	return id.String(), true
}

// --- Project handlers ---

// CreateProject handles POST /api/v1/admin/projects
func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	project, err := h.portfolio.CreateProject(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: project})
}

// UpdateProject handles PUT /api/v1/admin/projects/{id}
func (h *AdminHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	project := req.toDomain()
	project.ID = id

	updated, err := h.portfolio.UpdateProject(r.Context(), project)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// DeleteProject handles DELETE /api/v1/admin/projects/{id}
func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.portfolio.DeleteProject(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"id": id, "status": "deleted"},
	})
}

// --- Experience handlers ---

// ListExperiences handles GET /api/v1/admin/experiences
// Unlike the public listing it includes hidden entries.
func (h *AdminHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.portfolio.ListExperiences(r.Context(), languageParam(r), true)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: experiences})
}

// CreateExperience handles POST /api/v1/admin/experiences
func (h *AdminHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var req ExperienceRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	experience, err := h.portfolio.CreateExperience(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: experience})
}

// UpdateExperience handles PUT /api/v1/admin/experiences/{id}
func (h *AdminHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ExperienceRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	experience := req.toDomain()
	experience.ID = id

	updated, err := h.portfolio.UpdateExperience(r.Context(), experience)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// DeleteExperience handles DELETE /api/v1/admin/experiences/{id}
func (h *AdminHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.portfolio.DeleteExperience(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"id": id, "status": "deleted"},
	})
}

// --- Certification handlers ---

// ListCertifications handles GET /api/v1/admin/certifications
func (h *AdminHandler) ListCertifications(w http.ResponseWriter, r *http.Request) {
	certifications, err := h.portfolio.ListCertifications(r.Context(), languageParam(r), true)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: certifications})
}

// CreateCertification handles POST /api/v1/admin/certifications
func (h *AdminHandler) CreateCertification(w http.ResponseWriter, r *http.Request) {
	var req CertificationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	certification, err := h.portfolio.CreateCertification(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: certification})
}

// UpdateCertification handles PUT /api/v1/admin/certifications/{id}
func (h *AdminHandler) UpdateCertification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req CertificationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	certification := req.toDomain()
	certification.ID = id

	updated, err := h.portfolio.UpdateCertification(r.Context(), certification)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// DeleteCertification handles DELETE /api/v1/admin/certifications/{id}
func (h *AdminHandler) DeleteCertification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.portfolio.DeleteCertification(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"id": id, "status": "deleted"},
	})
}

// --- Blog handlers ---

// ListBlogs handles GET /api/v1/admin/blogs
func (h *AdminHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	blogs, total, err := h.portfolio.ListBlogs(r.Context(), languageParam(r), true, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(blogs, total, params.Page, params.PerPage))
}

// CreateBlog handles POST /api/v1/admin/blogs
func (h *AdminHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var req BlogRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	blog, err := h.portfolio.CreateBlog(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: blog})
}

// UpdateBlog handles PUT /api/v1/admin/blogs/{id}
func (h *AdminHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req BlogRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	blog := req.toDomain()
	blog.ID = id

	updated, err := h.portfolio.UpdateBlog(r.Context(), blog)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// DeleteBlog handles DELETE /api/v1/admin/blogs/{id}
func (h *AdminHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.portfolio.DeleteBlog(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"id": id, "status": "deleted"},
	})
}
