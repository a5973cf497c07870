package auth

import (
	"fmt"
	"strconv"

	"github.com/meltforce/fitlog/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects input longer than 72 bytes.
const (
	bcryptMaxBytes   = 72
	minPasswordBytes = 6
)

// Hasher hashes and verifies passwords with bcrypt and an optional pepper.
type Hasher struct {
	cost   int
	pepper string
}

// NewHasher returns a Hasher. Cost must be within 10-14 and the pepper must
// leave room for a minimum-length password within the bcrypt input limit.
func NewHasher(cost int, pepper string) (*Hasher, error) {
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}
	if len(pepper) > bcryptMaxBytes-minPasswordBytes {
		return nil, fmt.Errorf("password pepper too long: %d bytes (max %d)", len(pepper), bcryptMaxBytes-minPasswordBytes)
	}
	return &Hasher{cost: cost, pepper: pepper}, nil
}

// MaxPasswordBytes is the longest password Hash accepts with this pepper.
func (h *Hasher) MaxPasswordBytes() int {
	return bcryptMaxBytes - len(h.pepper)
}

// Hash returns the bcrypt hash of pw. A password that does not fit the bcrypt
// input limit together with the pepper is a *models.ValidationError.
func (h *Hasher) Hash(pw string) (string, error) {
	if limit := h.MaxPasswordBytes(); len(pw) > limit {
		return "", &models.ValidationError{Field: "password", Tag: "max", Param: strconv.Itoa(limit)}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+h.pepper), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether pw matches storedHash.
func (h *Hasher) Verify(pw, storedHash string) bool {
	if len(pw) > h.MaxPasswordBytes() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+h.pepper)) == nil
}
