package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/clubhouse/members-only/internal/core/domain"
)

// PasswordHasher hides the credential hashing scheme from the services.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns domain.ErrInvalidCredentials on mismatch.
	Compare(hash, password string) error
}

// BcryptHasher hashes with bcrypt; the salt is embedded in the hash.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	return err
}
