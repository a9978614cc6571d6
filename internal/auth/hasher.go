package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 12

// Hasher wraps bcrypt password hashing. Each hash embeds its own salt, so
// hashing the same password twice produces different digests.
type Hasher struct {
	cost int
}

// NewHasher creates a password hasher with the default cost.
func NewHasher() *Hasher {
	return &Hasher{cost: defaultBcryptCost}
}

// NewHasherWithCost creates a password hasher with an explicit cost. Costs
// outside bcrypt's valid range fall back to the default.
func NewHasherWithCost(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of the given password.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether the password matches the stored hash. A malformed
// or empty hash compares as a non-match rather than an error so callers
// treat it like any wrong password.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
