package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/study-assistant/internal/config"
	"github.com/phrazzld/study-assistant/internal/generation"
)

const (
	okBody = `{"candidates":[{"content":{"parts":[{"text":"Photosynthesis turns light into sugar."}],"role":"model"},"finishReason":"STOP"}],
"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":7}}`
	quotaBody   = `{"error":{"code":429,"message":"Quota exceeded for requests","status":"RESOURCE_EXHAUSTED"}}`
	authBody    = `{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`
	unavailBody = `{"error":{"code":503,"message":"The model is overloaded","status":"UNAVAILABLE"}}`
	blockedBody = `{"promptFeedback":{"blockReason":"SAFETY"}}`
	safetyBody  = `{"candidates":[{"content":{"parts":[{"text":""}],"role":"model"},"finishReason":"SAFETY"}]}`
	emptyBody   = `{"candidates":[]}`
	blankBody   = `{"candidates":[{"content":{"parts":[{"text":""}],"role":"model"},"finishReason":"STOP"}]}`
)

// capturedRequest is the subset of a generateContent request the tests check.
type capturedRequest struct {
	Path   string
	APIKey string
	Body   struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		SystemInstruction struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
		GenerationConfig struct {
			Temperature     float64 `json:"temperature"`
			MaxOutputTokens int     `json:"maxOutputTokens"`
		} `json:"generationConfig"`
	}
}

func newTestClient(t *testing.T, status int, body string, timeout time.Duration) (*Client, chan capturedRequest) {
	t.Helper()

	requests := make(chan capturedRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := capturedRequest{Path: r.URL.Path, APIKey: r.Header.Get("x-goog-api-key")}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.Body)
		select {
		case requests <- captured:
		default:
		}

		if timeout > 0 {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	cfg := config.LLMConfig{
		GeminiAPIKey:    "test-key",
		ModelName:       "gemini-test",
		Temperature:     0.7,
		MaxOutputTokens: 512,
		TimeoutSeconds:  30,
		BaseURL:         server.URL,
	}
	client, err := NewClient(context.Background(), cfg, server.Client(), nil)
	require.NoError(t, err)
	if timeout > 0 {
		client.timeout = timeout
	}
	return client, requests
}

func TestNewClientValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), config.LLMConfig{ModelName: "m"}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewClient(context.Background(), config.LLMConfig{GeminiAPIKey: "k"}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestCompleteSendsPromptAndReturnsText(t *testing.T) {
	t.Parallel()

	client, requests := newTestClient(t, http.StatusOK, okBody, 0)

	text, err := client.Complete(context.Background(), "SYSTEM RULES", "Explain: photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis turns light into sugar.", text)

	req := <-requests
	assert.True(t, strings.HasSuffix(req.Path, "/models/gemini-test:generateContent"), req.Path)
	assert.Equal(t, "test-key", req.APIKey)
	require.Len(t, req.Body.Contents, 1)
	assert.Equal(t, "user", req.Body.Contents[0].Role)
	assert.Equal(t, "Explain: photosynthesis", req.Body.Contents[0].Parts[0].Text)
	require.Len(t, req.Body.SystemInstruction.Parts, 1)
	assert.Equal(t, "SYSTEM RULES", req.Body.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.7, req.Body.GenerationConfig.Temperature, 0.001)
	assert.Equal(t, 512, req.Body.GenerationConfig.MaxOutputTokens)
}

func TestCompleteMapsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantCode   string
		wantErr    error
		wantKind   generation.ErrorKind
	}{
		{
			name:       "quota exhausted",
			status:     http.StatusTooManyRequests,
			body:       quotaBody,
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "RESOURCE_EXHAUSTED",
			wantKind:   generation.KindRateLimited,
		},
		{
			name:       "bad key",
			status:     http.StatusUnauthorized,
			body:       authBody,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHENTICATED",
			wantKind:   generation.KindAuthConfig,
		},
		{
			name:       "overloaded",
			status:     http.StatusServiceUnavailable,
			body:       unavailBody,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "UNAVAILABLE",
			wantKind:   generation.KindUpstream,
		},
		{
			name:     "prompt blocked",
			status:   http.StatusOK,
			body:     blockedBody,
			wantCode: "CONTENT_BLOCKED",
			wantErr:  generation.ErrContentBlocked,
			wantKind: generation.KindUnknown,
		},
		{
			name:     "candidate blocked",
			status:   http.StatusOK,
			body:     safetyBody,
			wantCode: "CONTENT_BLOCKED",
			wantErr:  generation.ErrContentBlocked,
			wantKind: generation.KindUnknown,
		},
		{
			name:     "no candidates",
			status:   http.StatusOK,
			body:     emptyBody,
			wantCode: "EMPTY_RESPONSE",
			wantErr:  generation.ErrEmptyResponse,
			wantKind: generation.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, tt.status, tt.body, 0)

			_, err := client.Complete(context.Background(), "system", "user")
			require.Error(t, err)

			var perr *generation.ProviderError
			require.True(t, errors.As(err, &perr), "expected ProviderError, got %T", err)
			assert.Equal(t, tt.wantStatus, perr.Status)
			assert.Equal(t, tt.wantCode, perr.Code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantKind, generation.Classify(err).Kind)
		})
	}
}

func TestCompleteReturnsEmptyAnswer(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.StatusOK, blankBody, 0)

	text, err := client.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Empty(t, text)

	svc, err := generation.NewService(client, nil)
	require.NoError(t, err)

	result, err := svc.Generate(context.Background(), "Some text to summarize", "summarize")
	require.NoError(t, err)
	assert.Equal(t, generation.ModeSummarize, result.Mode)
	assert.Empty(t, result.Text)
	assert.Empty(t, result.Raw)
	assert.False(t, result.Degraded())

	result, err = svc.Generate(context.Background(), "Cell biology", "generate_questions")
	require.NoError(t, err)
	assert.True(t, result.Degraded())
	assert.Nil(t, result.Questions)
	assert.Equal(t, generation.QuestionParseError, result.ParseError)
}

func TestCompleteTimesOut(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.StatusOK, okBody, 50*time.Millisecond)

	_, err := client.Complete(context.Background(), "system", "user")
	require.Error(t, err)

	var perr *generation.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusGatewayTimeout, perr.Status)
	assert.Equal(t, "DEADLINE_EXCEEDED", perr.Code)

	classified := generation.Classify(err)
	assert.Equal(t, generation.KindUpstream, classified.Kind)
	assert.True(t, classified.Retryable())
}

func TestCompleteHonoursCancellation(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.StatusOK, okBody, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, "system", "user")
	require.Error(t, err)

	var perr *generation.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "CANCELLED", perr.Code)
	assert.ErrorIs(t, err, context.Canceled)
}
