package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/study-assistant/internal/config"
	"github.com/phrazzld/study-assistant/internal/generation"
	"github.com/phrazzld/study-assistant/internal/platform/logger"
)

// Client implements generation.Client using the Gemini API.
type Client struct {
	models      *genai.Models
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	logger      *slog.Logger
}

var _ generation.Client = (*Client)(nil)

// NewClient creates a Gemini client from cfg. A nil httpClient uses a fresh
// http.Client; tests pass one pointed at a local server through cfg.BaseURL.
func NewClient(
	ctx context.Context,
	cfg config.LLMConfig,
	httpClient *http.Client,
	log *slog.Logger,
) (*Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = slog.Default()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Client{
		models:      client.Models,
		model:       cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		timeout:     cfg.Timeout(),
		logger:      log.With(slog.String("component", "gemini_client")),
	}, nil
}

// Complete implements generation.Client. The system text is sent as the
// system instruction and user as the single user turn.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
	}
	if c.maxTokens > 0 {
		genConfig.MaxOutputTokens = c.maxTokens
	}

	log.DebugContext(ctx, "sending Gemini request", slog.String("model", c.model))

	resp, err := c.models.GenerateContent(
		ctx,
		c.model,
		[]*genai.Content{genai.NewContentFromText(user, genai.RoleUser)},
		genConfig,
	)
	if err != nil {
		return "", mapError(ctx, err)
	}

	if err := checkBlocked(resp); err != nil {
		return "", err
	}

	// A finished candidate with no text is a valid, empty answer.
	text := resp.Text()

	if usage := resp.UsageMetadata; usage != nil {
		log.DebugContext(ctx, "Gemini request completed",
			slog.Int("prompt_tokens", int(usage.PromptTokenCount)),
			slog.Int("candidate_tokens", int(usage.CandidatesTokenCount)))
	}

	return text, nil
}
