package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/study-assistant/internal/generation"
)

// CompleteCall records the arguments of one Complete call.
type CompleteCall struct {
	System string
	User   string
}

// MockGenerationClient implements generation.Client for testing
type MockGenerationClient struct {
	// CompleteFn allows test cases to mock the Complete behavior
	CompleteFn func(ctx context.Context, system, user string) (string, error)

	// Default response values
	Reply string
	Err   error

	mu    sync.Mutex
	calls []CompleteCall
}

var _ generation.Client = (*MockGenerationClient)(nil)

// Complete implements the generation.Client interface
func (m *MockGenerationClient) Complete(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, CompleteCall{System: system, User: user})
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, system, user)
	}
	return m.Reply, m.Err
}

// Calls returns a copy of the recorded Complete calls.
func (m *MockGenerationClient) Calls() []CompleteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompleteCall(nil), m.calls...)
}
