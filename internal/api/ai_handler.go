package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/study-assistant/internal/api/shared"
	"github.com/phrazzld/study-assistant/internal/generation"
	"github.com/phrazzld/study-assistant/internal/platform/logger"
)

// Generator runs one generation request.
type Generator interface {
	Generate(ctx context.Context, rawInput, mode string) (generation.Result, error)
}

// AIHandler exposes the generation pipeline over HTTP.
type AIHandler struct {
	generator Generator
	now       func() time.Time
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(generator Generator) *AIHandler {
	return &AIHandler{generator: generator, now: time.Now}
}

// Generate handles POST /api/ai/generate.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidRequest)
		return
	}

	prompt, mode := req.PromptText(), req.ModeName()
	promptLength := 0
	if prompt != nil {
		promptLength = utf8.RuneCountInString(*prompt)
	}
	logger.FromContext(r.Context()).Info("AI request",
		slog.String("mode", mode),
		slog.Int("prompt_length", promptLength))

	if err := generation.CheckInput(prompt, mode); err != nil {
		classified := generation.Classify(err)
		logger.FromContext(r.Context()).Log(r.Context(), classified.Severity(), "rejected generation input",
			slog.String("kind", string(classified.Kind)),
			slog.String("error", classified.Message))
		h.respondWithFailure(w, r, classified)
		return
	}

	result, err := h.generator.Generate(r.Context(), *prompt, mode)
	if err != nil {
		h.respondWithFailure(w, r, generation.Classify(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		Success:   true,
		Data:      result,
		Timestamp: shared.Timestamp(h.now()),
	})
}

// respondWithFailure writes a classified error. Callers log it first, at the
// kind's severity.
func (h *AIHandler) respondWithFailure(w http.ResponseWriter, r *http.Request, classified *generation.ClassifiedError) {
	if classified.Kind == generation.KindRateLimited {
		w.Header().Set("Retry-After", "60")
	}
	shared.RespondWithError(w, r, classified.StatusHint, classified.Message)
}

// Modes handles GET /api/ai/modes.
func (h *AIHandler) Modes(w http.ResponseWriter, r *http.Request) {
	specs := generation.Modes()
	modes := make([]ModeInfo, 0, len(specs))
	for _, spec := range specs {
		modes = append(modes, ModeInfo{
			Value:       string(spec.Mode),
			Label:       spec.Label,
			Description: spec.Description,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ModesResponse{Success: true, Modes: modes})
}
