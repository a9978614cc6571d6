package repository

import (
	"context"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// UpdatePassword replaces the user's password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// IncrementSessionEpoch bumps the user's session epoch and returns the
	// new value. Access tokens issued under the old epoch become stale.
	IncrementSessionEpoch(ctx context.Context, id string) (int64, error)

	// TouchLastLogin records a successful login timestamp.
	TouchLastLogin(ctx context.Context, id string) error
}

// RefreshTokenRepository defines the interface for the refresh token ledger.
type RefreshTokenRepository interface {
	// Create stores a new refresh token entry.
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetBySecretHash retrieves a token entry by its secret digest.
	GetBySecretHash(ctx context.Context, secretHash string) (*domain.RefreshToken, error)

	// Rotate atomically marks the token identified by oldID as rotated and
	// inserts its successor, within one transaction. It returns false when
	// the old token was no longer active, meaning another rotation already
	// consumed it.
	Rotate(ctx context.Context, oldID string, successor *domain.RefreshToken) (bool, error)

	// RevokeFamily revokes every token in the given family.
	RevokeFamily(ctx context.Context, familyID string) error

	// RevokeByUserID revokes all refresh tokens for the given user.
	RevokeByUserID(ctx context.Context, userID string) error

	// DeleteExpired removes token entries past their expiry and returns the
	// number deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}

// PasswordResetTokenRepository defines the interface for single-use password
// reset tokens.
type PasswordResetTokenRepository interface {
	// Create stores a new reset token entry.
	Create(ctx context.Context, token *domain.PasswordResetToken) error

	// Consume atomically marks the token with the given digest as used and
	// returns it. It returns false when the token was already used or does
	// not exist.
	Consume(ctx context.Context, secretHash string) (*domain.PasswordResetToken, bool, error)

	// DeleteExpired removes reset tokens past their expiry.
	DeleteExpired(ctx context.Context) (int64, error)
}

// ProjectRepository defines the interface for project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetBySlug(ctx context.Context, slug, language string) (*domain.Project, error)
	List(ctx context.Context, language string, featuredOnly bool, page, perPage int) ([]domain.Project, int, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// ExperienceRepository defines the interface for experience persistence operations.
type ExperienceRepository interface {
	Create(ctx context.Context, experience *domain.Experience) error
	GetByID(ctx context.Context, id string) (*domain.Experience, error)
	List(ctx context.Context, language string, visibleOnly bool) ([]domain.Experience, error)
	Update(ctx context.Context, experience *domain.Experience) error
	Delete(ctx context.Context, id string) error
}

// CertificationRepository defines the interface for certification persistence operations.
type CertificationRepository interface {
	Create(ctx context.Context, certification *domain.Certification) error
	GetByID(ctx context.Context, id string) (*domain.Certification, error)
	List(ctx context.Context, language string, visibleOnly bool) ([]domain.Certification, error)
	Update(ctx context.Context, certification *domain.Certification) error
	Delete(ctx context.Context, id string) error
}

// BlogRepository defines the interface for blog reference persistence operations.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	List(ctx context.Context, language string, visibleOnly bool, page, perPage int) ([]domain.Blog, int, error)
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id string) error
}

// SearchRepository defines the interface for full-text search over the
// content tables.
type SearchRepository interface {
	// Search runs a ranked full-text query across projects, experiences,
	// certifications, and blogs, returning up to limit results.
	Search(ctx context.Context, query, language string, limit int) ([]domain.SearchResult, error)
}
