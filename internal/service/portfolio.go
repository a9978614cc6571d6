package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/internal/repository"
)

// ContentCache is the read-through cache the portfolio service consults
// before hitting the database. A nil cache disables caching.
type ContentCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// PortfolioService implements the business logic for portfolio content:
// projects, experiences, certifications, and blog references.
type PortfolioService struct {
	projectRepo       repository.ProjectRepository
	experienceRepo    repository.ExperienceRepository
	certificationRepo repository.CertificationRepository
	blogRepo          repository.BlogRepository
	cache             ContentCache
	logger            *slog.Logger
}

// NewPortfolioService creates a new portfolio content service.
func NewPortfolioService(
	projectRepo repository.ProjectRepository,
	experienceRepo repository.ExperienceRepository,
	certificationRepo repository.CertificationRepository,
	blogRepo repository.BlogRepository,
	cache ContentCache,
	logger *slog.Logger,
) *PortfolioService {
	return &PortfolioService{
		projectRepo:       projectRepo,
		experienceRepo:    experienceRepo,
		certificationRepo: certificationRepo,
		blogRepo:          blogRepo,
		cache:             cache,
		logger:            logger,
	}
}

// cachedList wraps a list payload with its total for cache round-trips.
type cachedList[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// --- Projects ---

// ListProjects returns projects for one language, optionally featured only.
func (s *PortfolioService) ListProjects(ctx context.Context, language string, featuredOnly bool, page, perPage int) ([]domain.Project, int, error) {
	language = domain.NormalizeLanguage(language)
	key := fmt.Sprintf("projects:%s:featured=%t:page=%d:per=%d", language, featuredOnly, page, perPage)

	var cached cachedList[domain.Project]
	if s.cacheGet(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	projects, total, err := s.projectRepo.List(ctx, language, featuredOnly, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	s.cacheSet(ctx, key, cachedList[domain.Project]{Items: projects, Total: total})
	return projects, total, nil
}

// GetProjectBySlug returns one project by slug and language.
func (s *PortfolioService) GetProjectBySlug(ctx context.Context, slug, language string) (*domain.Project, error) {
	language = domain.NormalizeLanguage(language)
	key := fmt.Sprintf("projects:%s:slug=%s", language, slug)

	var cached domain.Project
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	project, err := s.projectRepo.GetBySlug(ctx, slug, language)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	s.cacheSet(ctx, key, project)
	return project, nil
}

// CreateProject stores a new project and invalidates cached project lists.
func (s *PortfolioService) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	now := time.Now().UTC()
	project.ID = uuid.New().String()
	project.Language = domain.NormalizeLanguage(project.Language)
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.TechStack == nil {
		project.TechStack = []string{}
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.cacheInvalidate(ctx, "projects:")
	s.logger.InfoContext(ctx, "project created",
		slog.String("project_id", project.ID),
		slog.String("slug", project.Slug),
	)

	return project, nil
}

// UpdateProject replaces a project's fields and invalidates cached entries.
func (s *PortfolioService) UpdateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	project.Language = domain.NormalizeLanguage(project.Language)

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.cacheInvalidate(ctx, "projects:")
	s.logger.InfoContext(ctx, "project updated",
		slog.String("project_id", project.ID),
	)

	return project, nil
}

// DeleteProject removes a project and invalidates cached entries.
func (s *PortfolioService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.cacheInvalidate(ctx, "projects:")
	s.logger.InfoContext(ctx, "project deleted",
		slog.String("project_id", id),
	)

	return nil
}

// --- Experiences ---

// ListExperiences returns experience entries for one language. Public
// callers see only visible rows.
func (s *PortfolioService) ListExperiences(ctx context.Context, language string, includeHidden bool) ([]domain.Experience, error) {
	language = domain.NormalizeLanguage(language)
	key := fmt.Sprintf("experiences:%s:hidden=%t", language, includeHidden)

	var cached cachedList[domain.Experience]
	if s.cacheGet(ctx, key, &cached) {
		return cached.Items, nil
	}

	experiences, err := s.experienceRepo.List(ctx, language, !includeHidden)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}

	s.cacheSet(ctx, key, cachedList[domain.Experience]{Items: experiences})
	return experiences, nil
}

// CreateExperience stores a new experience entry.
func (s *PortfolioService) CreateExperience(ctx context.Context, experience *domain.Experience) (*domain.Experience, error) {
	now := time.Now().UTC()
	experience.ID = uuid.New().String()
	experience.Language = domain.NormalizeLanguage(experience.Language)
	experience.CreatedAt = now
	experience.UpdatedAt = now

	if err := s.experienceRepo.Create(ctx, experience); err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}

	s.cacheInvalidate(ctx, "experiences:")
	s.logger.InfoContext(ctx, "experience created",
		slog.String("experience_id", experience.ID),
	)

	return experience, nil
}

// UpdateExperience replaces an experience entry's fields.
func (s *PortfolioService) UpdateExperience(ctx context.Context, experience *domain.Experience) (*domain.Experience, error) {
	experience.Language = domain.NormalizeLanguage(experience.Language)

	if err := s.experienceRepo.Update(ctx, experience); err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}

	s.cacheInvalidate(ctx, "experiences:")
	return experience, nil
}

// DeleteExperience removes an experience entry.
func (s *PortfolioService) DeleteExperience(ctx context.Context, id string) error {
	if err := s.experienceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}

	s.cacheInvalidate(ctx, "experiences:")
	return nil
}

// --- Certifications ---

// ListCertifications returns certifications for one language.
func (s *PortfolioService) ListCertifications(ctx context.Context, language string, includeHidden bool) ([]domain.Certification, error) {
	language = domain.NormalizeLanguage(language)
	key := fmt.Sprintf("certifications:%s:hidden=%t", language, includeHidden)

	var cached cachedList[domain.Certification]
	if s.cacheGet(ctx, key, &cached) {
		return cached.Items, nil
	}

	certifications, err := s.certificationRepo.List(ctx, language, !includeHidden)
	if err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}

	s.cacheSet(ctx, key, cachedList[domain.Certification]{Items: certifications})
	return certifications, nil
}

// CreateCertification stores a new certification.
func (s *PortfolioService) CreateCertification(ctx context.Context, certification *domain.Certification) (*domain.Certification, error) {
	now := time.Now().UTC()
	certification.ID = uuid.New().String()
	certification.Language = domain.NormalizeLanguage(certification.Language)
	certification.CreatedAt = now
	certification.UpdatedAt = now

	if err := s.certificationRepo.Create(ctx, certification); err != nil {
		return nil, fmt.Errorf("create certification: %w", err)
	}

	s.cacheInvalidate(ctx, "certifications:")
	s.logger.InfoContext(ctx, "certification created",
		slog.String("certification_id", certification.ID),
	)

	return certification, nil
}

// UpdateCertification replaces a certification's fields.
func (s *PortfolioService) UpdateCertification(ctx context.Context, certification *domain.Certification) (*domain.Certification, error) {
	certification.Language = domain.NormalizeLanguage(certification.Language)

	if err := s.certificationRepo.Update(ctx, certification); err != nil {
		return nil, fmt.Errorf("update certification: %w", err)
	}

	s.cacheInvalidate(ctx, "certifications:")
	return certification, nil
}

// DeleteCertification removes a certification.
func (s *PortfolioService) DeleteCertification(ctx context.Context, id string) error {
	if err := s.certificationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete certification: %w", err)
	}

	s.cacheInvalidate(ctx, "certifications:")
	return nil
}

// --- Blogs ---

// ListBlogs returns blog references for one language with the total count.
func (s *PortfolioService) ListBlogs(ctx context.Context, language string, includeHidden bool, page, perPage int) ([]domain.Blog, int, error) {
	language = domain.NormalizeLanguage(language)
	key := fmt.Sprintf("blogs:%s:hidden=%t:page=%d:per=%d", language, includeHidden, page, perPage)

	var cached cachedList[domain.Blog]
	if s.cacheGet(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	blogs, total, err := s.blogRepo.List(ctx, language, !includeHidden, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}

	s.cacheSet(ctx, key, cachedList[domain.Blog]{Items: blogs, Total: total})
	return blogs, total, nil
}

// CreateBlog stores a new blog reference.
func (s *PortfolioService) CreateBlog(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	now := time.Now().UTC()
	blog.ID = uuid.New().String()
	blog.Language = domain.NormalizeLanguage(blog.Language)
	blog.CreatedAt = now
	blog.UpdatedAt = now

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}

	s.cacheInvalidate(ctx, "blogs:")
	s.logger.InfoContext(ctx, "blog created",
		slog.String("blog_id", blog.ID),
	)

	return blog, nil
}

// UpdateBlog replaces a blog reference's fields.
func (s *PortfolioService) UpdateBlog(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	blog.Language = domain.NormalizeLanguage(blog.Language)

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}

	s.cacheInvalidate(ctx, "blogs:")
	return blog, nil
}

// DeleteBlog removes a blog reference.
func (s *PortfolioService) DeleteBlog(ctx context.Context, id string) error {
	if err := s.blogRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	s.cacheInvalidate(ctx, "blogs:")
	return nil
}

// --- cache helpers ---

// cacheGet reads through the cache; errors degrade to a miss.
func (s *PortfolioService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WarnContext(ctx, "content cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	return hit
}

func (s *PortfolioService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.WarnContext(ctx, "content cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *PortfolioService) cacheInvalidate(ctx context.Context, prefix string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, prefix); err != nil {
		s.logger.WarnContext(ctx, "content cache invalidation failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
	}
}
