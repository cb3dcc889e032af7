package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/study-assistant/internal/api/middleware"
	"github.com/phrazzld/study-assistant/internal/config"
	"github.com/phrazzld/study-assistant/internal/generation"
	"github.com/phrazzld/study-assistant/internal/mocks"
	"github.com/phrazzld/study-assistant/internal/platform/logger"
	"github.com/phrazzld/study-assistant/internal/service/auth"
)

const testToken = "valid-token"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   0,
			LogLevel:               "debug",
			RequestTimeoutSeconds:  5,
			ShutdownTimeoutSeconds: 5,
			CORSAllowedOrigins:     []string{"http://localhost:3000"},
		},
		Auth:      config.AuthConfig{TokenLifetimeMinutes: 60},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2},
	}
}

func newTestApp(t *testing.T, reply string) (*application, uuid.UUID) {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	userID := uuid.New()

	svc, err := generation.NewService(&mocks.MockGenerationClient{Reply: reply}, log)
	require.NoError(t, err)

	return &application{
		config:    testConfig(),
		logger:    log,
		userStore: mocks.NewMockUserStore(),
		chatStore: mocks.NewMockChatStore(),
		jwtService: &mocks.MockJWTService{
			Token: testToken,
			ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
				if token != testToken {
					return nil, auth.ErrInvalidToken
				}
				return &auth.Claims{UserID: userID, Subject: userID.String()}, nil
			},
		},
		passwordHasher: &mocks.MockPasswordHasher{},
		generator:      svc,
	}, userID
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, authed bool) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouterRoutes(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, "An explanation.")
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		authed     bool
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/health", "", false, http.StatusOK},
		{"modes are public", http.MethodGet, "/api/ai/modes", "", false, http.StatusOK},
		{"generate requires auth", http.MethodPost, "/api/ai/generate", `{"prompt":"x","mode":"explain"}`, false, http.StatusUnauthorized},
		{"generate", http.MethodPost, "/api/ai/generate", `{"prompt":"x","mode":"explain"}`, true, http.StatusOK},
		{"me requires auth", http.MethodGet, "/api/auth/me", "", false, http.StatusUnauthorized},
		{"me for unknown user", http.MethodGet, "/api/auth/me", "", true, http.StatusNotFound},
		{"register", http.MethodPost, "/api/auth/register", `{"email":"a@b.co","password":"secret1","username":"a"}`, false, http.StatusCreated},
		{"history requires auth", http.MethodGet, "/api/chat/history", "", false, http.StatusUnauthorized},
		{"history", http.MethodGet, "/api/chat/history", "", true, http.StatusOK},
		{"save", http.MethodPost, "/api/chat/save", `{"mode":"explain","prompt":"p","response":"r"}`, true, http.StatusCreated},
		{"get unknown chat", http.MethodGet, "/api/chat/" + uuid.NewString(), "", true, http.StatusNotFound},
		{"clear", http.MethodDelete, "/api/chat", "", true, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nope", "", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, tt.method, tt.path, tt.body, tt.authed)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(middleware.TraceIDHeader))
		})
	}
}

func TestRouterRateLimitsGenerate(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, "ok")
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	body := `{"prompt":"x","mode":"explain"}`
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/ai/generate", body, true).StatusCode)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/ai/generate", body, true).StatusCode)

	resp := do(t, srv, http.MethodPost, "/api/ai/generate", body, true)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	var errBody struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
			Status  int    `json:"status"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.False(t, errBody.Success)
	assert.Equal(t, generation.MessageRateLimited, errBody.Error.Message)
	assert.Equal(t, http.StatusTooManyRequests, errBody.Error.Status)
}

func TestRouterCORS(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, "ok")
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/ai/generate", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
