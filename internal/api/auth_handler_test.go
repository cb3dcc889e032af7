package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/study-assistant/internal/domain"
	"github.com/phrazzld/study-assistant/internal/mocks"
)

type authFixture struct {
	handler *AuthHandler
	users   *mocks.MockUserStore
	jwt     *mocks.MockJWTService
	hasher  *mocks.MockPasswordHasher
}

func newAuthFixture() authFixture {
	f := authFixture{
		users:  mocks.NewMockUserStore(),
		jwt:    &mocks.MockJWTService{Token: "signed-token"},
		hasher: &mocks.MockPasswordHasher{},
	}
	f.handler = NewAuthHandler(f.users, f.jwt, f.hasher)
	return f
}

func (f authFixture) seedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()

	user, err := domain.NewUser("ann", email, password)
	require.NoError(t, err)
	user.HashedPassword = mocks.HashFor(password)
	user.Password = ""
	f.users.Add(user)
	return user
}

func TestRegister(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	w := httptest.NewRecorder()
	body := map[string]string{"email": "  Ann@Example.COM ", "password": "password123", "username": " ann "}

	f.handler.Register(w, newRequest(t, http.MethodPost, "/api/auth/register", body, uuid.Nil, nil))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data AuthResponse
	decodeSuccess(t, w, &data)
	assert.Equal(t, "signed-token", data.Token)
	assert.Equal(t, "ann@example.com", data.User.Email)
	assert.Equal(t, "ann", data.User.Username)
	assert.NotContains(t, w.Body.String(), "password123")

	stored, err := f.users.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, mocks.HashFor("password123"), stored.HashedPassword)
	assert.Empty(t, stored.Password)
}

func TestRegisterRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantMsg    string
	}{
		{"malformed body", `{"email":`, http.StatusBadRequest, MsgInvalidRequest},
		{"missing username", map[string]string{"email": "a@b.co", "password": "secret1"}, http.StatusBadRequest, "Email, password, and username are required"},
		{"blank username", map[string]string{"email": "a@b.co", "password": "secret1", "username": "   "}, http.StatusBadRequest, "Username is required"},
		{"bad email", map[string]string{"email": "nope", "password": "secret1", "username": "ann"}, http.StatusBadRequest, "Please provide a valid email"},
		{"short password", map[string]string{"email": "a@b.co", "password": "12345", "username": "ann"}, http.StatusBadRequest, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAuthFixture()
			w := httptest.NewRecorder()
			f.handler.Register(w, newRequest(t, http.MethodPost, "/api/auth/register", tt.body, uuid.Nil, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w).Message)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	f.seedUser(t, "ann@example.com", "password123")

	w := httptest.NewRecorder()
	body := map[string]string{"email": "ANN@example.com", "password": "password123", "username": "ann2"}
	f.handler.Register(w, newRequest(t, http.MethodPost, "/api/auth/register", body, uuid.Nil, nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, MsgEmailInUse, decodeError(t, w).Message)
}

func TestRegisterStoreFailureIsNotLeaked(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	f.users.CreateFn = func(ctx context.Context, user *domain.User) error {
		return errors.New("pq: connection to 10.0.0.5 refused")
	}

	w := httptest.NewRecorder()
	body := map[string]string{"email": "a@b.co", "password": "password123", "username": "ann"}
	f.handler.Register(w, newRequest(t, http.MethodPost, "/api/auth/register", body, uuid.Nil, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestLogin(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	user := f.seedUser(t, "ann@example.com", "password123")

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantMsg    string
	}{
		{"success", map[string]string{"email": " ANN@example.com", "password": "password123"}, http.StatusOK, ""},
		{"wrong password", map[string]string{"email": "ann@example.com", "password": "nope"}, http.StatusUnauthorized, MsgInvalidCredentials},
		{"unknown email", map[string]string{"email": "bob@example.com", "password": "password123"}, http.StatusUnauthorized, MsgInvalidCredentials},
		{"missing password", map[string]string{"email": "ann@example.com"}, http.StatusBadRequest, "Email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			f.handler.Login(w, newRequest(t, http.MethodPost, "/api/auth/login", tt.body, uuid.Nil, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, w).Message)
				return
			}
			var data AuthResponse
			decodeSuccess(t, w, &data)
			assert.Equal(t, user.ID, data.User.ID)
			assert.Equal(t, "signed-token", data.Token)
		})
	}
}

func TestLoginTokenFailure(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	f.seedUser(t, "ann@example.com", "password123")
	f.jwt.Err = errors.New("signing failed")

	w := httptest.NewRecorder()
	body := map[string]string{"email": "ann@example.com", "password": "password123"}
	f.handler.Login(w, newRequest(t, http.MethodPost, "/api/auth/login", body, uuid.Nil, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate authentication token", decodeError(t, w).Message)
}

func TestMe(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	user := f.seedUser(t, "ann@example.com", "password123")

	w := httptest.NewRecorder()
	f.handler.Me(w, newRequest(t, http.MethodGet, "/api/auth/me", nil, user.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var data UserResponse
	decodeSuccess(t, w, &data)
	assert.Equal(t, user.Email, data.User.Email)

	w = httptest.NewRecorder()
	f.handler.Me(w, newRequest(t, http.MethodGet, "/api/auth/me", nil, uuid.New(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, MsgUserNotFound, decodeError(t, w).Message)

	w = httptest.NewRecorder()
	f.handler.Me(w, newRequest(t, http.MethodGet, "/api/auth/me", nil, uuid.Nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
