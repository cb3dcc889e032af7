package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  ada  ", "  Ada@Example.COM ", "secret1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Username != "ada" {
		t.Errorf("Expected trimmed username %q, got %q", "ada", user.Username)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Expected normalised email %q, got %q", "ada@example.com", user.Email)
	}
	if user.Password != "secret1" {
		t.Errorf("Expected plaintext password to be kept for hashing, got %q", user.Password)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"blank username", "   ", "a@b.co", "secret1", ErrEmptyUsername},
		{"empty email", "ada", "", "secret1", ErrEmptyEmail},
		{"email without domain dot", "ada", "ada@example", "secret1", ErrInvalidEmail},
		{"email without at", "ada", "invalidemail", "secret1", ErrInvalidEmail},
		{"empty password", "ada", "a@b.co", "", ErrEmptyPassword},
		{"short password", "ada", "a@b.co", "12345", ErrPasswordTooShort},
		{"long password", "ada", "a@b.co", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected error %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidatePasswordBounds(t *testing.T) {
	if err := ValidatePassword(strings.Repeat("x", MinPasswordLength)); err != nil {
		t.Errorf("Expected minimum length password to pass, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("x", MaxPasswordLength)); err != nil {
		t.Errorf("Expected maximum length password to pass, got %v", err)
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	stored := User{
		ID:             uuid.New(),
		Username:       "ada",
		Email:          "ada@example.com",
		HashedPassword: "$2a$10$hash",
	}
	if err := stored.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	noHash := stored
	noHash.HashedPassword = ""
	if err := noHash.Validate(); err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}

	noID := stored
	noID.ID = uuid.Nil
	if err := noID.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}
}
