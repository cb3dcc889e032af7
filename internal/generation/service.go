package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/study-assistant/internal/platform/logger"
	"github.com/phrazzld/study-assistant/internal/redact"
)

// Service runs the generation pipeline: build the prompt, call the provider
// once, parse the reply. Every failure it returns is a *ClassifiedError.
// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	client Client
	logger *slog.Logger
}

// NewService creates a Service around client. A nil logger falls back to
// slog.Default().
func NewService(client Client, logger *slog.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		logger: logger.With(slog.String("component", "generation_service")),
	}, nil
}

// Generate turns a raw user input and mode name into a normalised Result.
//
// Invalid input is rejected before the provider is contacted. The provider is
// called exactly once; retries are left to the caller, guided by
// ClassifiedError.Retryable. A degraded generate_questions reply is returned
// as a successful Result with ParseError set.
func (s *Service) Generate(ctx context.Context, rawInput, mode string) (Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("mode", mode))

	prompt, err := BuildPrompt(rawInput, mode)
	if err != nil {
		return Result{}, s.fail(ctx, log, "rejected generation input", err)
	}

	log.DebugContext(ctx, "calling language model",
		slog.Int("system_length", len(prompt.System)),
		slog.Int("user_length", len(prompt.User)))

	start := time.Now()
	raw, err := s.client.Complete(ctx, prompt.System, prompt.User)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, s.fail(ctx, log.With(slog.Duration("duration", elapsed)), "language model call failed", err)
	}

	result, reason := parse(raw, Mode(mode))
	if reason != nil {
		log.WarnContext(ctx, "language model reply did not match the expected format",
			slog.String("reason", reason.Error()),
			slog.Int("raw_length", len(raw)),
			slog.Duration("duration", elapsed))
		return result, nil
	}

	log.InfoContext(ctx, "generation completed",
		slog.Int("raw_length", len(raw)),
		slog.Duration("duration", elapsed))
	return result, nil
}

func (s *Service) fail(ctx context.Context, log *slog.Logger, msg string, err error) *ClassifiedError {
	classified := Classify(err)
	log.Log(ctx, classified.Severity(), msg,
		slog.String("kind", string(classified.Kind)),
		slog.Int("status_hint", classified.StatusHint),
		slog.Bool("retryable", classified.Retryable()),
		slog.String("error", classified.Message),
		slog.String("cause", redact.Error(err)))
	return classified
}
