package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/study-assistant/internal/domain"
	"github.com/phrazzld/study-assistant/internal/store"
)

// MockChatStore implements store.ChatStore for testing
type MockChatStore struct {
	CreateFn           func(ctx context.Context, chat *domain.Chat) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	ListRecentFn       func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatSummary, error)
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	DeleteAllForUserFn func(ctx context.Context, userID uuid.UUID) (int64, error)

	mu    sync.Mutex
	chats map[uuid.UUID]*domain.Chat
}

var _ store.ChatStore = (*MockChatStore)(nil)

// NewMockChatStore creates a new mock store with no chats
func NewMockChatStore() *MockChatStore {
	return &MockChatStore{chats: make(map[uuid.UUID]*domain.Chat)}
}

// Add seeds the default implementation with chat.
func (m *MockChatStore) Add(chat *domain.Chat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chats == nil {
		m.chats = make(map[uuid.UUID]*domain.Chat)
	}
	m.chats[chat.ID] = chat
}

// Len returns the number of chats held by the default implementation.
func (m *MockChatStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chats)
}

// Create implements the ChatStore interface
func (m *MockChatStore) Create(ctx context.Context, chat *domain.Chat) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, chat)
	}
	if err := chat.Validate(); err != nil {
		return err
	}
	m.Add(chat)
	return nil
}

// GetByID implements the ChatStore interface
func (m *MockChatStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	chat, ok := m.chats[id]
	if !ok {
		return nil, store.ErrChatNotFound
	}
	return chat, nil
}

// ListRecent implements the ChatStore interface
func (m *MockChatStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.ChatSummary, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, userID, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	summaries := make([]domain.ChatSummary, 0, len(m.chats))
	for _, chat := range m.chats {
		if chat.IsOwnedBy(userID) {
			summaries = append(summaries, chat.Summary())
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit >= 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Delete implements the ChatStore interface
func (m *MockChatStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chats[id]; !ok {
		return store.ErrChatNotFound
	}
	delete(m.chats, id)
	return nil
}

// DeleteAllForUser implements the ChatStore interface
func (m *MockChatStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.DeleteAllForUserFn != nil {
		return m.DeleteAllForUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, chat := range m.chats {
		if chat.IsOwnedBy(userID) {
			delete(m.chats, id)
			removed++
		}
	}
	return removed, nil
}
