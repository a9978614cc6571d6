package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/CarterPerez-dev/my-portfolio/internal/auth"
	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/internal/repository"
	apperrors "github.com/CarterPerez-dev/my-portfolio/pkg/errors"
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// dummyPasswordHash is compared against when the email is unknown so that
// login takes the same time whether or not the account exists.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// SessionService implements session and credential management: login,
// refresh token rotation with reuse detection, logout, and password
// lifecycle operations.
type SessionService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.RefreshTokenRepository
	resetRepo  repository.PasswordResetTokenRepository
	codec      *auth.Codec
	hasher     *auth.Hasher
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	logger     *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	resetRepo repository.PasswordResetTokenRepository,
	codec *auth.Codec,
	hasher *auth.Hasher,
	accessTTL, refreshTTL, resetTTL time.Duration,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		resetRepo:  resetRepo,
		codec:      codec,
		hasher:     hasher,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		logger:     logger,
	}
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// Login authenticates a user with email and password and starts a new
// refresh token family. All credential failures collapse to the same public
// error; the underlying reason stays attached for logging.
func (s *SessionService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		// Burn a hash comparison so unknown emails cost the same as known ones.
		s.hasher.Verify(input.Password, dummyPasswordHash)
		loginsTotal.WithLabelValues("failure").Inc()
		return nil, nil, apperrors.CredentialFailure(apperrors.ErrInvalidCredentials)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		loginsTotal.WithLabelValues("failure").Inc()
		return nil, nil, apperrors.CredentialFailure(apperrors.ErrInvalidCredentials)
	}

	if !user.IsActive {
		loginsTotal.WithLabelValues("failure").Inc()
		return nil, nil, apperrors.CredentialFailure(apperrors.ErrAccountInactive)
	}

	if !user.IsVerified {
		loginsTotal.WithLabelValues("failure").Inc()
		return nil, nil, apperrors.CredentialFailure(apperrors.ErrAccountUnverified)
	}

	// Each login starts a fresh token family.
	familyID := uuid.New().String()
	tokens, err := s.issueTokenPair(ctx, user, familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to record last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	loginsTotal.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("family_id", familyID),
	)

	return user, tokens, nil
}

// Refresh validates a refresh token, rotates it, and returns a new token
// pair. Presenting a token that was already rotated or revoked is treated as
// theft: the whole family is killed. A lost rotation race is deliberately
// indistinguishable from reuse.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	claims, err := s.codec.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		refreshesTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.SessionFailure(apperrors.ErrExpiredToken)
		}
		return nil, apperrors.SessionFailure(apperrors.ErrInvalidToken)
	}

	stored, err := s.tokenRepo.GetBySecretHash(ctx, hashToken(refreshToken))
	if err != nil {
		refreshesTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.SessionFailure(apperrors.ErrInvalidToken)
	}

	now := time.Now().UTC()

	if stored.Status != domain.TokenStatusActive {
		return nil, s.killFamily(ctx, stored)
	}

	if now.After(stored.ExpiresAt) {
		refreshesTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.SessionFailure(apperrors.ErrExpiredToken)
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		refreshesTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.SessionFailure(apperrors.ErrInvalidToken)
	}

	if !user.IsActive {
		refreshesTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.SessionFailure(apperrors.ErrAccountInactive)
	}

	if claims.SessionEpoch != user.SessionEpoch {
		refreshesTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.SessionFailure(apperrors.ErrEpochStale)
	}

	tokens, won, err := s.rotateTokenPair(ctx, user, stored)
	if err != nil {
		refreshesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !won {
		return nil, s.killFamily(ctx, stored)
	}

	refreshesTotal.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "tokens refreshed",
		slog.String("user_id", user.ID),
		slog.String("family_id", stored.FamilyID),
	)

	return tokens, nil
}

// killFamily revokes every token in the family of a reused token and returns
// the flattened reuse error.
func (s *SessionService) killFamily(ctx context.Context, stored *domain.RefreshToken) error {
	if err := s.tokenRepo.RevokeFamily(ctx, stored.FamilyID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke token family after reuse",
			slog.String("user_id", stored.UserID),
			slog.String("family_id", stored.FamilyID),
			slog.String("error", err.Error()),
		)
	}

	reuseDetectedTotal.Inc()
	refreshesTotal.WithLabelValues("reuse").Inc()
	s.logger.WarnContext(ctx, "refresh token reuse detected, family revoked",
		slog.String("user_id", stored.UserID),
		slog.String("family_id", stored.FamilyID),
	)

	return apperrors.SessionFailure(apperrors.ErrReusedToken)
}

// Logout revokes the family of the presented refresh token. An unknown or
// already-revoked token is a no-op so logout stays idempotent.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.InvalidInput("refresh token is required")
	}

	stored, err := s.tokenRepo.GetBySecretHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil
	}

	if err := s.tokenRepo.RevokeFamily(ctx, stored.FamilyID); err != nil {
		return fmt.Errorf("revoke family on logout: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", stored.UserID),
		slog.String("family_id", stored.FamilyID),
	)

	return nil
}

// LogoutAll revokes every refresh token for the user and bumps the session
// epoch so outstanding access tokens stop verifying.
func (s *SessionService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.tokenRepo.RevokeByUserID(ctx, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}

	if _, err := s.userRepo.IncrementSessionEpoch(ctx, userID); err != nil {
		return fmt.Errorf("bump session epoch: %w", err)
	}

	s.logger.InfoContext(ctx, "all sessions revoked",
		slog.String("user_id", userID),
	)

	return nil
}

// ChangePassword verifies the current password, stores the new hash, and
// invalidates every existing session.
func (s *SessionService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return apperrors.InvalidInput("new password must be different from current password")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for password change: %w", err)
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.invalidateSessions(ctx, userID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", userID),
	)

	return nil
}

// RequestPasswordReset creates a single-use reset token for the account. The
// raw token is returned to the caller for delivery; unknown emails succeed
// with an empty token so the endpoint does not reveal which accounts exist.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", apperrors.InvalidInput("email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.InfoContext(ctx, "password reset requested for unknown email",
			slog.String("email", email),
		)
		return "", nil
	}

	token, err := s.codec.Issue(auth.TokenTypeReset, user.ID, "", "", user.SessionEpoch, s.resetTTL)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}

	now := time.Now().UTC()
	entry := &domain.PasswordResetToken{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		SecretHash: hashToken(token),
		ExpiresAt:  now.Add(s.resetTTL),
		CreatedAt:  now,
	}
	if err := s.resetRepo.Create(ctx, entry); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("user_id", user.ID),
	)

	return token, nil
}

// ConfirmPasswordReset consumes a reset token, stores the new password hash,
// and invalidates every existing session. Each token works exactly once.
func (s *SessionService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.InvalidInput("reset token is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	claims, err := s.codec.Verify(token, auth.TokenTypeReset)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return apperrors.SessionFailure(apperrors.ErrExpiredToken)
		}
		return apperrors.SessionFailure(apperrors.ErrInvalidToken)
	}

	entry, ok, err := s.resetRepo.Consume(ctx, hashToken(token))
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !ok || entry.UserID != claims.UserID {
		return apperrors.SessionFailure(apperrors.ErrInvalidToken)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, entry.UserID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.invalidateSessions(ctx, entry.UserID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("user_id", entry.UserID),
	)

	return nil
}

// VerifyAccessToken checks an access token's signature, expiry, type, and
// session epoch against the user's current state.
func (s *SessionService) VerifyAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.codec.Verify(token, auth.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.SessionFailure(apperrors.ErrExpiredToken)
		}
		return nil, apperrors.SessionFailure(apperrors.ErrInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.SessionFailure(apperrors.ErrInvalidToken)
	}

	if !user.IsActive {
		return nil, apperrors.SessionFailure(apperrors.ErrAccountInactive)
	}

	if claims.SessionEpoch != user.SessionEpoch {
		return nil, apperrors.SessionFailure(apperrors.ErrEpochStale)
	}

	return claims, nil
}

// GetProfile returns the account behind an authenticated session.
func (s *SessionService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// PurgeExpired removes expired refresh and reset token entries. Run
// periodically from a background sweeper.
func (s *SessionService) PurgeExpired(ctx context.Context) error {
	refreshN, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge refresh tokens: %w", err)
	}

	resetN, err := s.resetRepo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge reset tokens: %w", err)
	}

	if refreshN > 0 || resetN > 0 {
		s.logger.InfoContext(ctx, "expired tokens purged",
			slog.Int64("refresh_tokens", refreshN),
			slog.Int64("reset_tokens", resetN),
		)
	}

	return nil
}

// invalidateSessions revokes all refresh tokens and bumps the session epoch.
func (s *SessionService) invalidateSessions(ctx context.Context, userID string) error {
	if err := s.tokenRepo.RevokeByUserID(ctx, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	if _, err := s.userRepo.IncrementSessionEpoch(ctx, userID); err != nil {
		return fmt.Errorf("bump session epoch: %w", err)
	}
	return nil
}

// issueTokenPair creates an access/refresh pair for a brand new family and
// stores the refresh token's digest in the ledger.
func (s *SessionService) issueTokenPair(ctx context.Context, user *domain.User, familyID string) (*domain.TokenPair, error) {
	accessToken, err := s.codec.Issue(auth.TokenTypeAccess, user.ID, user.Email, user.Role, user.SessionEpoch, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, entry, err := s.newRefreshEntry(user, familyID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// rotateTokenPair creates the successor pair and atomically swaps it for the
// old ledger entry. A transient storage failure is retried once before
// giving up with a 503; the caller never rotates twice for one presentation.
func (s *SessionService) rotateTokenPair(ctx context.Context, user *domain.User, old *domain.RefreshToken) (*domain.TokenPair, bool, error) {
	accessToken, err := s.codec.Issue(auth.TokenTypeAccess, user.ID, user.Email, user.Role, user.SessionEpoch, s.accessTTL)
	if err != nil {
		return nil, false, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, successor, err := s.newRefreshEntry(user, old.FamilyID)
	if err != nil {
		return nil, false, err
	}

	won, err := s.tokenRepo.Rotate(ctx, old.ID, successor)
	if err != nil {
		s.logger.WarnContext(ctx, "rotate failed, retrying once",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		won, err = s.tokenRepo.Rotate(ctx, old.ID, successor)
		if err != nil {
			return nil, false, apperrors.Unavailable(fmt.Errorf("session storage unavailable: %w", apperrors.ErrServiceUnavail))
		}
	}
	if !won {
		return nil, false, nil
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, true, nil
}

// newRefreshEntry issues a refresh token and builds its ledger entry. Only
// the digest goes into the entry.
func (s *SessionService) newRefreshEntry(user *domain.User, familyID string) (string, *domain.RefreshToken, error) {
	refreshToken, err := s.codec.Issue(auth.TokenTypeRefresh, user.ID, "", "", user.SessionEpoch, s.refreshTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue refresh token: %w", err)
	}

	now := time.Now().UTC()
	entry := &domain.RefreshToken{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		FamilyID:   familyID,
		SecretHash: hashToken(refreshToken),
		Status:     domain.TokenStatusActive,
		ExpiresAt:  now.Add(s.refreshTTL),
		CreatedAt:  now,
	}

	return refreshToken, entry, nil
}

// hashToken returns the SHA256 hex digest of the given token string.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
