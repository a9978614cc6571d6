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

// RefreshTokenRepository implements repository.RefreshTokenRepository using PostgreSQL.
type RefreshTokenRepository struct {
	db database.DBTX
}

// NewRefreshTokenRepository creates a new PostgreSQL-backed refresh token repository.
func NewRefreshTokenRepository(db database.DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create stores a new refresh token entry.
func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, family_id, secret_hash, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.FamilyID,
		t.SecretHash,
		t.Status,
		t.ExpiresAt,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// GetBySecretHash retrieves a token entry by its secret digest.
func (r *RefreshTokenRepository) GetBySecretHash(ctx context.Context, secretHash string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, family_id, secret_hash, status, expires_at, created_at, revoked_at
		FROM refresh_tokens
		WHERE secret_hash = $1`

	var t domain.RefreshToken
	err := r.db.QueryRow(ctx, query, secretHash).Scan(
		&t.ID,
		&t.UserID,
		&t.FamilyID,
		&t.SecretHash,
		&t.Status,
		&t.ExpiresAt,
		&t.CreatedAt,
		&t.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}

	return &t, nil
}

// Rotate atomically marks the old token as rotated and inserts its successor.
// The conditional update is the arbiter under concurrent refreshes: only the
// request that flips the row from active wins, every other request sees zero
// rows affected and gets won=false.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldID string, successor *domain.RefreshToken) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin rotate: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE refresh_tokens
		SET status = $1, revoked_at = NOW()
		WHERE id = $2 AND status = $3`,
		domain.TokenStatusRotated, oldID, domain.TokenStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("rotate old token: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, family_id, secret_hash, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		successor.ID,
		successor.UserID,
		successor.FamilyID,
		successor.SecretHash,
		successor.Status,
		successor.ExpiresAt,
		successor.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert successor token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit rotate: %w", err)
	}

	return true, nil
}

// RevokeFamily revokes every token in the given family.
func (r *RefreshTokenRepository) RevokeFamily(ctx context.Context, familyID string) error {
	query := `
		UPDATE refresh_tokens
		SET status = $1, revoked_at = NOW()
		WHERE family_id = $2 AND status != $1`

	if _, err := r.db.Exec(ctx, query, domain.TokenStatusRevoked, familyID); err != nil {
		return fmt.Errorf("revoke token family: %w", err)
	}

	return nil
}

// RevokeByUserID revokes all refresh tokens for the given user.
func (r *RefreshTokenRepository) RevokeByUserID(ctx context.Context, userID string) error {
	query := `
		UPDATE refresh_tokens
		SET status = $1, revoked_at = NOW()
		WHERE user_id = $2 AND status != $1`

	if _, err := r.db.Exec(ctx, query, domain.TokenStatusRevoked, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}

	return nil
}

// DeleteExpired removes token entries past their expiry.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}

	return ct.RowsAffected(), nil
}

// PasswordResetTokenRepository implements repository.PasswordResetTokenRepository
// using PostgreSQL.
type PasswordResetTokenRepository struct {
	db database.DBTX
}

// NewPasswordResetTokenRepository creates a new PostgreSQL-backed reset token repository.
func NewPasswordResetTokenRepository(db database.DBTX) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

// Create stores a new reset token entry.
func (r *PasswordResetTokenRepository) Create(ctx context.Context, t *domain.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, secret_hash, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.SecretHash,
		t.Used,
		t.ExpiresAt,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}

	return nil
}

// Consume atomically marks the token with the given digest as used and
// returns it. The conditional update guarantees single use even under
// concurrent confirmation attempts.
func (r *PasswordResetTokenRepository) Consume(ctx context.Context, secretHash string) (*domain.PasswordResetToken, bool, error) {
	query := `
		UPDATE password_reset_tokens
		SET used = TRUE
		WHERE secret_hash = $1 AND used = FALSE AND expires_at > NOW()
		RETURNING id, user_id, secret_hash, used, expires_at, created_at`

	var t domain.PasswordResetToken
	err := r.db.QueryRow(ctx, query, secretHash).Scan(
		&t.ID,
		&t.UserID,
		&t.SecretHash,
		&t.Used,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("consume reset token: %w", err)
	}

	return &t, true, nil
}

// DeleteExpired removes reset tokens past their expiry.
func (r *PasswordResetTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired reset tokens: %w", err)
	}

	return ct.RowsAffected(), nil
}
