package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/study-assistant/internal/domain"
	"github.com/phrazzld/study-assistant/internal/generation"
	"github.com/phrazzld/study-assistant/internal/platform/logger"
	"github.com/phrazzld/study-assistant/internal/store"
)

// PostgresChatStore implements the store.ChatStore interface
// using a PostgreSQL database as the storage backend.
type PostgresChatStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChatStore creates a new PostgreSQL implementation of the ChatStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresChatStore(db store.DBTX, logger *slog.Logger) *PostgresChatStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresChatStore{
		db:     db,
		logger: logger.With(slog.String("component", "chat_store")),
	}
}

// Ensure PostgresChatStore implements store.ChatStore interface
var _ store.ChatStore = (*PostgresChatStore)(nil)

// Create implements store.ChatStore.Create.
func (s *PostgresChatStore) Create(ctx context.Context, chat *domain.Chat) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("chat_id", chat.ID.String()),
		slog.String("user_id", chat.UserID.String()))

	if err := chat.Validate(); err != nil {
		log.Warn("chat validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO chats (id, user_id, mode, prompt, response, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		chat.ID,
		chat.UserID,
		string(chat.Mode),
		chat.Prompt,
		[]byte(chat.Response),
		chat.CreatedAt,
		chat.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("chat owner does not exist")
		} else {
			log.Error("failed to create chat", slog.String("error", err.Error()))
		}
		return MapError(err)
	}

	log.Info("chat saved", slog.String("mode", string(chat.Mode)))
	return nil
}

// GetByID implements store.ChatStore.GetByID.
func (s *PostgresChatStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("chat_id", id.String()))

	query := `
		SELECT id, user_id, mode, prompt, response, created_at, updated_at
		FROM chats
		WHERE id = $1
	`

	var chat domain.Chat
	var mode string
	var response []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&chat.ID,
		&chat.UserID,
		&mode,
		&chat.Prompt,
		&response,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("chat not found")
			return nil, store.ErrChatNotFound
		}
		log.Error("failed to get chat by ID", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	chat.Mode = generation.Mode(mode)
	chat.Response = response
	return &chat, nil
}

// ListRecent implements store.ChatStore.ListRecent.
func (s *PostgresChatStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	query := `
		SELECT id, mode, prompt, created_at
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list chats", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	chats := make([]domain.ChatSummary, 0, limit)
	for rows.Next() {
		var summary domain.ChatSummary
		var mode string
		if err := rows.Scan(&summary.ID, &mode, &summary.Prompt, &summary.CreatedAt); err != nil {
			log.Error("failed to scan chat row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		summary.Mode = generation.Mode(mode)
		chats = append(chats, summary)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating chat rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed recent chats", slog.Int("count", len(chats)))
	return chats, nil
}

// Delete implements store.ChatStore.Delete.
func (s *PostgresChatStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("chat_id", id.String()))

	result, err := s.db.ExecContext(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete chat", slog.String("error", err.Error()))
		return store.NewStoreError("chat", "delete", "failed to delete chat", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrChatNotFound); err != nil {
		return err
	}

	log.Info("chat deleted")
	return nil
}

// DeleteAllForUser implements store.ChatStore.DeleteAllForUser.
func (s *PostgresChatStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	result, err := s.db.ExecContext(ctx, `DELETE FROM chats WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to clear chat history", slog.String("error", err.Error()))
		return 0, store.NewStoreError("chat", "delete_all", "failed to clear chat history", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("chat", "delete_all", "failed to count deleted chats", err)
	}

	log.Info("chat history cleared", slog.Int64("deleted", n))
	return n, nil
}
