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

// ExperienceRepository implements repository.ExperienceRepository using PostgreSQL.
type ExperienceRepository struct {
	db database.DBTX
}

// NewExperienceRepository creates a new PostgreSQL-backed experience repository.
func NewExperienceRepository(db database.DBTX) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

const experienceColumns = `id, language, company, company_url, location, role, employment_type,
		start_date, end_date, is_current, description, responsibilities, achievements, tech_stack,
		display_order, is_visible, created_at, updated_at`

// Create inserts a new experience entry into the database.
func (r *ExperienceRepository) Create(ctx context.Context, e *domain.Experience) error {
	query := `
		INSERT INTO experiences (id, language, company, company_url, location, role, employment_type,
			start_date, end_date, is_current, description, responsibilities, achievements, tech_stack,
			display_order, is_visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.Exec(ctx, query,
		e.ID, e.Language, e.Company, nullable(e.CompanyURL), nullable(e.Location), e.Role, nullable(e.EmploymentType),
		e.StartDate, e.EndDate, e.IsCurrent, e.Description, e.Responsibilities, e.Achievements, e.TechStack,
		e.DisplayOrder, e.IsVisible, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert experience: %w", err)
	}

	return nil
}

// GetByID retrieves an experience entry by its ID.
func (r *ExperienceRepository) GetByID(ctx context.Context, id string) (*domain.Experience, error) {
	query := fmt.Sprintf(`SELECT %s FROM experiences WHERE id = $1`, experienceColumns)

	e, err := scanExperience(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan experience: %w", err)
	}

	return e, nil
}

// List returns experience entries in one language, most recent first.
func (r *ExperienceRepository) List(ctx context.Context, language string, visibleOnly bool) ([]domain.Experience, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM experiences
		WHERE language = $1 AND (NOT $2 OR is_visible)
		ORDER BY display_order ASC, start_date DESC`, experienceColumns)

	rows, err := r.db.Query(ctx, query, language, visibleOnly)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	var experiences []domain.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		experiences = append(experiences, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experiences: %w", err)
	}

	return experiences, nil
}

// Update modifies an existing experience entry in the database.
func (r *ExperienceRepository) Update(ctx context.Context, e *domain.Experience) error {
	query := `
		UPDATE experiences
		SET language = $1, company = $2, company_url = $3, location = $4, role = $5, employment_type = $6,
		    start_date = $7, end_date = $8, is_current = $9, description = $10, responsibilities = $11,
		    achievements = $12, tech_stack = $13, display_order = $14, is_visible = $15, updated_at = NOW()
		WHERE id = $16`

	ct, err := r.db.Exec(ctx, query,
		e.Language, e.Company, nullable(e.CompanyURL), nullable(e.Location), e.Role, nullable(e.EmploymentType),
		e.StartDate, e.EndDate, e.IsCurrent, e.Description, e.Responsibilities, e.Achievements, e.TechStack,
		e.DisplayOrder, e.IsVisible, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update experience: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("experience", e.ID)
	}

	return nil
}

// Delete removes an experience entry from the database by its ID.
func (r *ExperienceRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("experience", id)
	}

	return nil
}

func scanExperience(row pgx.Row) (*domain.Experience, error) {
	var e domain.Experience
	var companyURL, location, employmentType *string

	err := row.Scan(
		&e.ID, &e.Language, &e.Company, &companyURL, &location, &e.Role, &employmentType,
		&e.StartDate, &e.EndDate, &e.IsCurrent, &e.Description, &e.Responsibilities, &e.Achievements, &e.TechStack,
		&e.DisplayOrder, &e.IsVisible, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.CompanyURL = deref(companyURL)
	e.Location = deref(location)
	e.EmploymentType = deref(employmentType)

	return &e, nil
}

// --- Certification Repository ---

// CertificationRepository implements repository.CertificationRepository using PostgreSQL.
type CertificationRepository struct {
	db database.DBTX
}

// NewCertificationRepository creates a new PostgreSQL-backed certification repository.
func NewCertificationRepository(db database.DBTX) *CertificationRepository {
	return &CertificationRepository{db: db}
}

const certificationColumns = `id, language, name, issuer, issuer_url, credential_id, verification_url,
		date_obtained, expiry_date, badge_image_url, category, display_order, is_visible, created_at, updated_at`

// Create inserts a new certification into the database.
func (r *CertificationRepository) Create(ctx context.Context, c *domain.Certification) error {
	query := `
		INSERT INTO certifications (id, language, name, issuer, issuer_url, credential_id, verification_url,
			date_obtained, expiry_date, badge_image_url, category, display_order, is_visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Language, c.Name, c.Issuer, nullable(c.IssuerURL), nullable(c.CredentialID), nullable(c.VerificationURL),
		c.DateObtained, c.ExpiryDate, nullable(c.BadgeImageURL), nullable(c.Category),
		c.DisplayOrder, c.IsVisible, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert certification: %w", err)
	}

	return nil
}

// GetByID retrieves a certification by its ID.
func (r *CertificationRepository) GetByID(ctx context.Context, id string) (*domain.Certification, error) {
	query := fmt.Sprintf(`SELECT %s FROM certifications WHERE id = $1`, certificationColumns)

	c, err := scanCertification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan certification: %w", err)
	}

	return c, nil
}

// List returns certifications in one language ordered by display_order.
func (r *CertificationRepository) List(ctx context.Context, language string, visibleOnly bool) ([]domain.Certification, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM certifications
		WHERE language = $1 AND (NOT $2 OR is_visible)
		ORDER BY display_order ASC, date_obtained DESC`, certificationColumns)

	rows, err := r.db.Query(ctx, query, language, visibleOnly)
	if err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}
	defer rows.Close()

	var certifications []domain.Certification
	for rows.Next() {
		c, err := scanCertification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certification: %w", err)
		}
		certifications = append(certifications, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certifications: %w", err)
	}

	return certifications, nil
}

// Update modifies an existing certification in the database.
func (r *CertificationRepository) Update(ctx context.Context, c *domain.Certification) error {
	query := `
		UPDATE certifications
		SET language = $1, name = $2, issuer = $3, issuer_url = $4, credential_id = $5, verification_url = $6,
		    date_obtained = $7, expiry_date = $8, badge_image_url = $9, category = $10, display_order = $11,
		    is_visible = $12, updated_at = NOW()
		WHERE id = $13`

	ct, err := r.db.Exec(ctx, query,
		c.Language, c.Name, c.Issuer, nullable(c.IssuerURL), nullable(c.CredentialID), nullable(c.VerificationURL),
		c.DateObtained, c.ExpiryDate, nullable(c.BadgeImageURL), nullable(c.Category),
		c.DisplayOrder, c.IsVisible, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update certification: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("certification", c.ID)
	}

	return nil
}

// Delete removes a certification from the database by its ID.
func (r *CertificationRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM certifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete certification: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("certification", id)
	}

	return nil
}

func scanCertification(row pgx.Row) (*domain.Certification, error) {
	var c domain.Certification
	var issuerURL, credentialID, verificationURL, badgeImageURL, category *string

	err := row.Scan(
		&c.ID, &c.Language, &c.Name, &c.Issuer, &issuerURL, &credentialID, &verificationURL,
		&c.DateObtained, &c.ExpiryDate, &badgeImageURL, &category,
		&c.DisplayOrder, &c.IsVisible, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.IssuerURL = deref(issuerURL)
	c.CredentialID = deref(credentialID)
	c.VerificationURL = deref(verificationURL)
	c.BadgeImageURL = deref(badgeImageURL)
	c.Category = deref(category)

	return &c, nil
}

// --- Blog Repository ---

// BlogRepository implements repository.BlogRepository using PostgreSQL.
type BlogRepository struct {
	db database.DBTX
}

// NewBlogRepository creates a new PostgreSQL-backed blog repository.
func NewBlogRepository(db database.DBTX) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogColumns = `id, language, title, description, external_url, category, tags, thumbnail_url,
		published_date, read_time_minutes, display_order, is_visible, is_featured, created_at, updated_at`

// Create inserts a new blog reference into the database.
func (r *BlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	query := `
		INSERT INTO blogs (id, language, title, description, external_url, category, tags, thumbnail_url,
			published_date, read_time_minutes, display_order, is_visible, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		b.ID, b.Language, b.Title, b.Description, b.ExternalURL, nullable(b.Category), b.Tags, nullable(b.ThumbnailURL),
		b.PublishedDate, b.ReadTimeMinutes, b.DisplayOrder, b.IsVisible, b.IsFeatured, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}

	return nil
}

// GetByID retrieves a blog reference by its ID.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	query := fmt.Sprintf(`SELECT %s FROM blogs WHERE id = $1`, blogColumns)

	b, err := scanBlog(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan blog: %w", err)
	}

	return b, nil
}

// List returns blog references in one language along with the total count.
func (r *BlogRepository) List(ctx context.Context, language string, visibleOnly bool, page, perPage int) ([]domain.Blog, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM blogs WHERE language = $1 AND (NOT $2 OR is_visible)`
	if err := r.db.QueryRow(ctx, countQuery, language, visibleOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM blogs
		WHERE language = $1 AND (NOT $2 OR is_visible)
		ORDER BY display_order ASC, published_date DESC NULLS LAST
		LIMIT $3 OFFSET $4`, blogColumns)

	rows, err := r.db.Query(ctx, query, language, visibleOnly, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate blogs: %w", err)
	}

	return blogs, total, nil
}

// Update modifies an existing blog reference in the database.
func (r *BlogRepository) Update(ctx context.Context, b *domain.Blog) error {
	query := `
		UPDATE blogs
		SET language = $1, title = $2, description = $3, external_url = $4, category = $5, tags = $6,
		    thumbnail_url = $7, published_date = $8, read_time_minutes = $9, display_order = $10,
		    is_visible = $11, is_featured = $12, updated_at = NOW()
		WHERE id = $13`

	ct, err := r.db.Exec(ctx, query,
		b.Language, b.Title, b.Description, b.ExternalURL, nullable(b.Category), b.Tags,
		nullable(b.ThumbnailURL), b.PublishedDate, b.ReadTimeMinutes, b.DisplayOrder,
		b.IsVisible, b.IsFeatured, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("blog", b.ID)
	}

	return nil
}

// Delete removes a blog reference from the database by its ID.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("blog", id)
	}

	return nil
}

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var b domain.Blog
	var category, thumbnailURL *string

	err := row.Scan(
		&b.ID, &b.Language, &b.Title, &b.Description, &b.ExternalURL, &category, &b.Tags, &thumbnailURL,
		&b.PublishedDate, &b.ReadTimeMinutes, &b.DisplayOrder, &b.IsVisible, &b.IsFeatured, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Category = deref(category)
	b.ThumbnailURL = deref(thumbnailURL)

	return &b, nil
}
