package user

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 10

// PasswordHasher hides the hashing algorithm from the rest of the package.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

type Config struct {
	BcryptCost int
}

// ConfigFromEnv reads BCRYPT_COST.
func ConfigFromEnv() Config {
	cost := DefaultBcryptCost
	if v, err := strconv.Atoi(os.Getenv("BCRYPT_COST")); err == nil && v >= bcrypt.MinCost && v <= bcrypt.MaxCost {
		cost = v
	}
	return Config{BcryptCost: cost}
}

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(h), nil
}

// Verify reports whether pw matches hash. Malformed hashes never match.
func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
