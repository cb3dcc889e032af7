package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/study-assistant/internal/domain"
)

// ChatStore defines the interface for saved chat persistence.
// Ownership checks are the caller's job; the store only scopes listing and
// bulk deletion by user.
type ChatStore interface {
	// Create saves a new chat.
	// Returns validation errors from the domain Chat if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, chat *domain.Chat) error

	// GetByID retrieves a chat, including its response.
	// Returns ErrChatNotFound if the chat does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)

	// ListRecent returns up to limit of the user's chats, newest first,
	// without their responses.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatSummary, error)

	// Delete removes a chat by ID.
	// Returns ErrChatNotFound if the chat does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllForUser removes every chat owned by userID and reports how
	// many were removed. Removing nothing is not an error.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
