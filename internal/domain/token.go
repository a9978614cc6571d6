package domain

import (
	"time"
)

// Refresh token lifecycle states. A token starts active, becomes rotated when
// a successor replaces it, and revoked when its family is killed or the user
// logs out.
const (
	TokenStatusActive  = "active"
	TokenStatusRotated = "rotated"
	TokenStatusRevoked = "revoked"
)

// RefreshToken is one entry in the refresh token ledger. Only the SHA-256
// digest of the presented token is stored; the raw secret never touches the
// database. Tokens issued from the same login share a FamilyID so the whole
// chain can be revoked together when reuse is detected.
type RefreshToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	FamilyID   string     `json:"family_id"`
	SecretHash string     `json:"-"`
	Status     string     `json:"status"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// Valid reports whether the token is still usable at the given instant.
func (t *RefreshToken) Valid(now time.Time) bool {
	return t.Status == TokenStatusActive && now.Before(t.ExpiresAt)
}

// PasswordResetToken is a single-use credential for completing a password
// reset. As with refresh tokens, only the digest is stored.
type PasswordResetToken struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SecretHash string    `json:"-"`
	Used       bool      `json:"used"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// TokenPair holds the credentials returned from login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
