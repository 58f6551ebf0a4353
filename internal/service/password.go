package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

// DefaultBcryptCost is the fixed work factor for stored password digests
const DefaultBcryptCost = 10

var (
	ErrHashingFailure  = &domain.Error{Kind: domain.KindInternal, Message: "Hashing failure"}
	ErrPasswordTooLong = &domain.Error{Kind: domain.KindValidation, Message: "Password must not exceed 72 bytes"}
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A malformed digest is a mismatch.
	Verify(plaintext, digest string) bool
}

// BcryptHasher implements PasswordHasher with a per-call random salt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. A cost outside bcrypt's range falls back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.Wrap(ErrPasswordTooLong, "password.Hash", err)
		}
		return "", domain.Wrap(ErrHashingFailure, "password.Hash", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
