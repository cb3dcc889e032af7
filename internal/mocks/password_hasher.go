package mocks

import (
	"errors"
	"strings"

	"github.com/phrazzld/study-assistant/internal/service/auth"
)

// hashPrefix marks a password "hashed" by MockPasswordHasher.
const hashPrefix = "hashed:"

// ErrPasswordMismatch is returned by MockPasswordHasher.Compare when the
// password does not match.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher for testing. By default it
// "hashes" by prefixing, so Compare succeeds only for the original password.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// HashFor returns the hash the default implementation produces for password.
func HashFor(password string) string {
	return hashPrefix + password
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return HashFor(password), nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, hashPrefix) || hashedPassword != HashFor(password) {
		return ErrPasswordMismatch
	}
	return nil
}
