package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/pkg/database"
	apperrors "github.com/CarterPerez-dev/my-portfolio/pkg/errors"
)

const projectColumns = `id, slug, language, title, subtitle, description, technical_details, tech_stack,
		github_url, demo_url, website_url, docs_url, thumbnail_url, banner_url, screenshots,
		stars_count, forks_count, status, start_date, end_date, display_order, is_complete, is_featured,
		created_at, updated_at`

// ProjectRepository implements repository.ProjectRepository using PostgreSQL.
type ProjectRepository struct {
	db database.DBTX
}

// NewProjectRepository creates a new PostgreSQL-backed project repository.
func NewProjectRepository(db database.DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project into the database.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	query := `
		INSERT INTO projects (id, slug, language, title, subtitle, description, technical_details, tech_stack,
			github_url, demo_url, website_url, docs_url, thumbnail_url, banner_url, screenshots,
			stars_count, forks_count, status, start_date, end_date, display_order, is_complete, is_featured,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.Slug, p.Language, p.Title, nullable(p.Subtitle), p.Description, nullable(p.TechnicalDetails), p.TechStack,
		nullable(p.GitHubURL), nullable(p.DemoURL), nullable(p.WebsiteURL), nullable(p.DocsURL),
		nullable(p.ThumbnailURL), nullable(p.BannerURL), p.Screenshots,
		p.StarsCount, p.ForksCount, nullable(p.Status), p.StartDate, p.EndDate,
		p.DisplayOrder, p.IsComplete, p.IsFeatured, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("project", "slug", p.Slug)
		}
		return fmt.Errorf("insert project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)
	return r.scanProjectRow(r.db.QueryRow(ctx, query, id))
}

// GetBySlug retrieves a project by its slug and language.
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug, language string) (*domain.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE slug = $1 AND language = $2`, projectColumns)
	return r.scanProjectRow(r.db.QueryRow(ctx, query, slug, language))
}

// List returns projects in one language ordered by display_order, optionally
// restricted to featured ones, along with the total count.
func (r *ProjectRepository) List(ctx context.Context, language string, featuredOnly bool, page, perPage int) ([]domain.Project, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM projects WHERE language = $1 AND (NOT $2 OR is_featured)`
	if err := r.db.QueryRow(ctx, countQuery, language, featuredOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM projects
		WHERE language = $1 AND (NOT $2 OR is_featured)
		ORDER BY display_order ASC, created_at DESC
		LIMIT $3 OFFSET $4`, projectColumns)

	rows, err := r.db.Query(ctx, query, language, featuredOnly, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := r.scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, total, nil
}

// Update modifies an existing project in the database.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	query := `
		UPDATE projects
		SET slug = $1, language = $2, title = $3, subtitle = $4, description = $5, technical_details = $6,
		    tech_stack = $7, github_url = $8, demo_url = $9, website_url = $10, docs_url = $11,
		    thumbnail_url = $12, banner_url = $13, screenshots = $14, stars_count = $15, forks_count = $16,
		    status = $17, start_date = $18, end_date = $19, display_order = $20, is_complete = $21,
		    is_featured = $22, updated_at = NOW()
		WHERE id = $23`

	ct, err := r.db.Exec(ctx, query,
		p.Slug, p.Language, p.Title, nullable(p.Subtitle), p.Description, nullable(p.TechnicalDetails),
		p.TechStack, nullable(p.GitHubURL), nullable(p.DemoURL), nullable(p.WebsiteURL), nullable(p.DocsURL),
		nullable(p.ThumbnailURL), nullable(p.BannerURL), p.Screenshots, p.StarsCount, p.ForksCount,
		nullable(p.Status), p.StartDate, p.EndDate, p.DisplayOrder, p.IsComplete, p.IsFeatured,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("project", "slug", p.Slug)
		}
		return fmt.Errorf("update project: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("project", p.ID)
	}

	return nil
}

// Delete removes a project from the database by its ID.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("project", id)
	}

	return nil
}

func (r *ProjectRepository) scanProjectRow(row pgx.Row) (*domain.Project, error) {
	p, err := scanProjectFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) scanProject(rows pgx.Rows) (*domain.Project, error) {
	p, err := scanProjectFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return p, nil
}

// scanProjectFrom reads one project row. Nullable text columns are scanned
// through pointers and flattened to empty strings.
func scanProjectFrom(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var subtitle, technicalDetails, githubURL, demoURL, websiteURL, docsURL, thumbnailURL, bannerURL, status *string

	err := row.Scan(
		&p.ID, &p.Slug, &p.Language, &p.Title, &subtitle, &p.Description, &technicalDetails, &p.TechStack,
		&githubURL, &demoURL, &websiteURL, &docsURL, &thumbnailURL, &bannerURL, &p.Screenshots,
		&p.StarsCount, &p.ForksCount, &status, &p.StartDate, &p.EndDate,
		&p.DisplayOrder, &p.IsComplete, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Subtitle = deref(subtitle)
	p.TechnicalDetails = deref(technicalDetails)
	p.GitHubURL = deref(githubURL)
	p.DemoURL = deref(demoURL)
	p.WebsiteURL = deref(websiteURL)
	p.DocsURL = deref(docsURL)
	p.ThumbnailURL = deref(thumbnailURL)
	p.BannerURL = deref(bannerURL)
	p.Status = deref(status)

	return &p, nil
}

// nullable converts an empty string to a NULL parameter.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
