// Package mocks provides centralized mock implementations for testing.
//
// Each mock implements one application interface with a function field per
// method. When a function field is nil the mock falls back to a small
// in-memory default so simple tests need no setup:
//
//	users := mocks.NewMockUserStore()
//	chats := mocks.NewMockChatStore()
//	jwt := &mocks.MockJWTService{Token: "token"}
//
// Override a single method when a test needs a specific outcome:
//
//	chats.DeleteFn = func(ctx context.Context, id uuid.UUID) error {
//	    return store.ErrChatNotFound
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Assert the interface is satisfied with a blank var declaration
package mocks
