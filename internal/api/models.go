package api

import (
	"bytes"
	"encoding/json"

	"github.com/phrazzld/study-assistant/internal/domain"
	"github.com/phrazzld/study-assistant/internal/generation"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// UserResponse is returned by GET /api/auth/me.
type UserResponse struct {
	User *domain.User `json:"user"`
}

// SaveChatRequest is the body of POST /api/chat/save. Response is kept as
// raw JSON so both free text and question sets are stored unchanged.
type SaveChatRequest struct {
	Mode     string          `json:"mode"`
	Prompt   string          `json:"prompt"`
	Response json.RawMessage `json:"response"`
}

// missingField reports whether any field is absent or empty.
func (r SaveChatRequest) missingField() bool {
	resp := bytes.TrimSpace(r.Response)
	return r.Mode == "" ||
		r.Prompt == "" ||
		len(resp) == 0 ||
		bytes.Equal(resp, []byte("null")) ||
		bytes.Equal(resp, []byte(`""`))
}

// ChatResponse wraps a single chat.
type ChatResponse struct {
	Chat *domain.Chat `json:"chat"`
}

// ChatsResponse wraps a history listing.
type ChatsResponse struct {
	Chats []domain.ChatSummary `json:"chats"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
	Deleted *int64 `json:"deleted,omitempty"`
}

// GenerateRequest is the body of POST /api/ai/generate. Both fields are
// decoded as raw JSON so a missing or non-string value is reported as an
// input violation rather than a malformed request.
type GenerateRequest struct {
	Prompt json.RawMessage `json:"prompt"`
	Mode   json.RawMessage `json:"mode"`
}

// PromptText returns the prompt when it is a JSON string and nil otherwise.
func (r GenerateRequest) PromptText() *string {
	var s string
	if len(r.Prompt) == 0 || json.Unmarshal(r.Prompt, &s) != nil {
		return nil
	}
	return &s
}

// ModeName returns the mode when it is a JSON string and "" otherwise.
func (r GenerateRequest) ModeName() string {
	var s string
	if len(r.Mode) == 0 || json.Unmarshal(r.Mode, &s) != nil {
		return ""
	}
	return s
}

// GenerateResponse is the success envelope of POST /api/ai/generate.
type GenerateResponse struct {
	Success   bool              `json:"success"`
	Data      generation.Result `json:"data"`
	Timestamp string            `json:"timestamp"`
}

// ModeInfo describes one generation mode for clients.
type ModeInfo struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ModesResponse is returned by GET /api/ai/modes.
type ModesResponse struct {
	Success bool       `json:"success"`
	Modes   []ModeInfo `json:"modes"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database,omitempty"`
	Timestamp string `json:"timestamp"`
}
