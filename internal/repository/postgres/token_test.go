package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/pkg/database"
	apperrors "github.com/CarterPerez-dev/my-portfolio/pkg/errors"
)

func newTokenTestFixture(t *testing.T) (*RefreshTokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewRefreshTokenRepository(mock)
	return repo, mock
}

func sampleRefreshToken() *domain.RefreshToken {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.RefreshToken{
		ID:         "rt-1",
		UserID:     "u-1234",
		FamilyID:   "fam-1",
		SecretHash: "digest-1",
		Status:     domain.TokenStatusActive,
		ExpiresAt:  now.Add(168 * time.Hour),
		CreatedAt:  now,
	}
}

func refreshTokenColumns() []string {
	return []string{
		"id", "user_id", "family_id", "secret_hash", "status",
		"expires_at", "created_at", "revoked_at",
	}
}

func refreshTokenRow(rt *domain.RefreshToken) *pgxmock.Rows {
	return pgxmock.NewRows(refreshTokenColumns()).AddRow(
		rt.ID, rt.UserID, rt.FamilyID, rt.SecretHash, rt.Status,
		rt.ExpiresAt, rt.CreatedAt, rt.RevokedAt,
	)
}

// ---------------------------------------------------------------------------
// Create / GetBySecretHash
// ---------------------------------------------------------------------------

func TestRefreshTokenRepository_Create_Success(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	rt := sampleRefreshToken()

	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(rt.ID, rt.UserID, rt.FamilyID, rt.SecretHash, rt.Status, rt.ExpiresAt, rt.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), rt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_GetBySecretHash_Success(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	rt := sampleRefreshToken()

	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
		WithArgs(rt.SecretHash).
		WillReturnRows(refreshTokenRow(rt))

	got, err := repo.GetBySecretHash(context.Background(), rt.SecretHash)
	require.NoError(t, err)
	assert.Equal(t, rt.ID, got.ID)
	assert.Equal(t, rt.FamilyID, got.FamilyID)
	assert.Equal(t, domain.TokenStatusActive, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_GetBySecretHash_NotFound(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
		WithArgs("unknown-digest").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetBySecretHash(context.Background(), "unknown-digest")
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Rotate
// ---------------------------------------------------------------------------

func TestRefreshTokenRepository_Rotate_Wins(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	successor := sampleRefreshToken()
	successor.ID = "rt-2"
	successor.SecretHash = "digest-2"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE refresh_tokens").
		WithArgs(domain.TokenStatusRotated, "rt-1", domain.TokenStatusActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(
			successor.ID, successor.UserID, successor.FamilyID, successor.SecretHash,
			successor.Status, successor.ExpiresAt, successor.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	won, err := repo.Rotate(context.Background(), "rt-1", successor)
	require.NoError(t, err)
	assert.True(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent refresh already flipped the row away from active; the loser
// must see won=false and no successor insert happens.
func TestRefreshTokenRepository_Rotate_LosesRace(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	successor := sampleRefreshToken()
	successor.ID = "rt-2"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE refresh_tokens").
		WithArgs(domain.TokenStatusRotated, "rt-1", domain.TokenStatusActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	won, err := repo.Rotate(context.Background(), "rt-1", successor)
	require.NoError(t, err)
	assert.False(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_Rotate_InsertFails(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	successor := sampleRefreshToken()
	successor.ID = "rt-2"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE refresh_tokens").
		WithArgs(domain.TokenStatusRotated, "rt-1", domain.TokenStatusActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(
			successor.ID, successor.UserID, successor.FamilyID, successor.SecretHash,
			successor.Status, successor.ExpiresAt, successor.CreatedAt,
		).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	won, err := repo.Rotate(context.Background(), "rt-1", successor)
	assert.False(t, won)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// RevokeFamily / RevokeByUserID / DeleteExpired
// ---------------------------------------------------------------------------

func TestRefreshTokenRepository_RevokeFamily(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE refresh_tokens").
		WithArgs(domain.TokenStatusRevoked, "fam-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	err := repo.RevokeFamily(context.Background(), "fam-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_RevokeByUserID(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE refresh_tokens").
		WithArgs(domain.TokenStatusRevoked, "u-1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	err := repo.RevokeByUserID(context.Background(), "u-1234")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// PasswordResetTokenRepository
// ---------------------------------------------------------------------------

func newResetTokenTestFixture(t *testing.T) (*PasswordResetTokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewPasswordResetTokenRepository(mock)
	return repo, mock
}

func TestPasswordResetTokenRepository_Consume_Success(t *testing.T) {
	repo, mock := newResetTokenTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)
	mock.ExpectQuery("UPDATE password_reset_tokens").
		WithArgs("reset-digest").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "secret_hash", "used", "expires_at", "created_at"}).
			AddRow("prt-1", "u-1234", "reset-digest", true, now.Add(30*time.Minute), now))

	tok, ok, err := repo.Consume(context.Background(), "reset-digest")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u-1234", tok.UserID)
	assert.True(t, tok.Used)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Reset tokens are single use: a second consume sees no matching row.
func TestPasswordResetTokenRepository_Consume_AlreadyUsed(t *testing.T) {
	repo, mock := newResetTokenTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE password_reset_tokens").
		WithArgs("reset-digest").
		WillReturnError(pgx.ErrNoRows)

	tok, ok, err := repo.Consume(context.Background(), "reset-digest")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
