package gemini

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"

	"github.com/phrazzld/study-assistant/internal/generation"
)

// mapError converts an SDK or transport failure into a ProviderError. The
// context is consulted first because a timed-out request surfaces as an
// opaque transport error.
func mapError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &generation.ProviderError{
			Status:  http.StatusGatewayTimeout,
			Code:    "DEADLINE_EXCEEDED",
			Message: "Gemini request timed out",
			Err:     err,
		}
	case errors.Is(err, context.Canceled):
		return &generation.ProviderError{
			Code:    "CANCELLED",
			Message: "Gemini request was cancelled",
			Err:     err,
		}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &generation.ProviderError{
			Status:  apiErr.Code,
			Code:    apiErr.Status,
			Message: apiErr.Message,
			Err:     err,
		}
	}

	return &generation.ProviderError{Message: err.Error(), Err: err}
}

// checkBlocked reports a ProviderError wrapping generation.ErrContentBlocked
// when the prompt or the first candidate was withheld by safety filters, and
// one wrapping generation.ErrEmptyResponse when no candidate came back.
func checkBlocked(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return errNoCandidates()
	}

	reason := ""
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		reason = string(fb.BlockReason)
	} else if len(resp.Candidates) > 0 {
		switch resp.Candidates[0].FinishReason {
		case genai.FinishReasonSafety, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent:
			reason = string(resp.Candidates[0].FinishReason)
		}
	}
	if reason == "" {
		if len(resp.Candidates) == 0 {
			return errNoCandidates()
		}
		return nil
	}

	return &generation.ProviderError{
		Code:    "CONTENT_BLOCKED",
		Message: generation.ErrContentBlocked.Error() + " (" + reason + ")",
		Err:     generation.ErrContentBlocked,
	}
}

func errNoCandidates() *generation.ProviderError {
	return &generation.ProviderError{
		Code:    "EMPTY_RESPONSE",
		Message: generation.ErrEmptyResponse.Error(),
		Err:     generation.ErrEmptyResponse,
	}
}
