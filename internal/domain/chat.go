package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/study-assistant/internal/generation"
)

// HistoryLimit is the number of chats returned by a history listing.
const HistoryLimit = 10

// Chat validation errors
var (
	ErrInvalidChatMode  = errors.New("invalid chat mode")
	ErrEmptyChatPrompt  = errors.New("chat prompt cannot be empty")
	ErrEmptyChatReply   = errors.New("chat response cannot be empty")
	ErrInvalidChatReply = errors.New("chat response must be valid JSON")
)

// Chat is a saved generation: what the user asked, in which mode, and the
// response they chose to keep. Response is stored exactly as the client sent
// it, so free-text answers and question sets round-trip unchanged.
type Chat struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Mode      generation.Mode `json:"mode"`
	Prompt    string          `json:"prompt"`
	Response  json.RawMessage `json:"response"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ChatSummary is the listing form of a Chat, without its response.
type ChatSummary struct {
	ID        uuid.UUID       `json:"id"`
	Mode      generation.Mode `json:"mode"`
	Prompt    string          `json:"prompt"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewChat creates a new Chat owned by userID.
func NewChat(userID uuid.UUID, mode, prompt string, response json.RawMessage) (*Chat, error) {
	now := time.Now().UTC()
	chat := &Chat{
		ID:        uuid.New(),
		UserID:    userID,
		Mode:      generation.Mode(mode),
		Prompt:    prompt,
		Response:  response,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := chat.Validate(); err != nil {
		return nil, err
	}

	return chat, nil
}

// Validate checks if the Chat has valid data.
func (c *Chat) Validate() error {
	if c.ID == uuid.Nil {
		return ErrInvalidID
	}
	if c.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if !c.Mode.IsValid() {
		return ErrInvalidChatMode
	}
	if strings.TrimSpace(c.Prompt) == "" {
		return ErrEmptyChatPrompt
	}

	trimmed := bytes.TrimSpace(c.Response)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return ErrEmptyChatReply
	}
	if !json.Valid(trimmed) {
		return ErrInvalidChatReply
	}

	return nil
}

// Summary returns the listing form of c.
func (c *Chat) Summary() ChatSummary {
	return ChatSummary{
		ID:        c.ID,
		Mode:      c.Mode,
		Prompt:    c.Prompt,
		CreatedAt: c.CreatedAt,
	}
}

// IsOwnedBy reports whether userID owns c.
func (c *Chat) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}
