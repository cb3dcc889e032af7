package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/study-assistant/internal/api/shared"
	"github.com/phrazzld/study-assistant/internal/domain"
	"github.com/phrazzld/study-assistant/internal/generation"
	"github.com/phrazzld/study-assistant/internal/platform/logger"
	"github.com/phrazzld/study-assistant/internal/store"
)

// chatIDParam is the chi URL parameter holding a chat ID.
const chatIDParam = "chatId"

// ChatHandler handles saved-chat API requests. Every route requires an
// authenticated user, and a user may only read or delete their own chats.
type ChatHandler struct {
	chatStore store.ChatStore
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatStore store.ChatStore) *ChatHandler {
	return &ChatHandler{chatStore: chatStore}
}

// History handles GET /api/chat/history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	chats, err := h.chatStore.ListRecent(r.Context(), userID, domain.HistoryLimit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load chat history", err)
		return
	}
	if chats == nil {
		chats = []domain.ChatSummary{}
	}

	shared.RespondWithData(w, r, http.StatusOK, ChatsResponse{Chats: chats})
}

// Save handles POST /api/chat/save.
func (h *ChatHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SaveChatRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidRequest)
		return
	}
	if req.missingField() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Mode, prompt, and response are required")
		return
	}

	chat, err := domain.NewChat(userID, req.Mode, req.Prompt, req.Response)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidChatMode) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Mode must be one of: "+generation.ModeNames())
			return
		}
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	if err := h.chatStore.Create(r.Context(), chat); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to save chat", err)
		return
	}

	logger.FromContext(r.Context()).Info("chat saved",
		slog.String("chat_id", chat.ID.String()),
		slog.String("mode", string(chat.Mode)))

	shared.RespondWithData(w, r, http.StatusCreated, ChatResponse{Chat: chat})
}

// Get handles GET /api/chat/{chatId}.
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, ChatResponse{Chat: chat})
}

// Delete handles DELETE /api/chat/{chatId}.
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	if err := h.chatStore.Delete(r.Context(), chat.ID); err != nil {
		if errors.Is(err, store.ErrChatNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, MsgChatNotFound)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete chat", err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, MessageResponse{Message: "Chat deleted"})
}

// Clear handles DELETE /api/chat.
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deleted, err := h.chatStore.DeleteAllForUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to clear chat history", err)
		return
	}

	logger.FromContext(r.Context()).Info("chat history cleared", slog.Int64("deleted", deleted))

	shared.RespondWithData(w, r, http.StatusOK, MessageResponse{Message: "All chats deleted", Deleted: &deleted})
}

// ownedChat loads the chat named in the path and checks the caller owns it.
// It writes the error response itself and reports whether to continue.
func (h *ChatHandler) ownedChat(w http.ResponseWriter, r *http.Request) (*domain.Chat, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return nil, false
	}

	chatID, err := getPathUUID(r, chatIDParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, MsgChatNotFound)
		return nil, false
	}

	chat, err := h.chatStore.GetByID(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, store.ErrChatNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, MsgChatNotFound)
			return nil, false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load chat", err)
		return nil, false
	}

	if !chat.IsOwnedBy(userID) {
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, MsgChatForbidden,
			ownershipError(chatID, userID), shared.WithElevatedLogLevel())
		return nil, false
	}

	return chat, true
}

func ownershipError(chatID, userID uuid.UUID) error {
	return fmt.Errorf("%w: chat %s is not owned by user %s", domain.ErrUnauthorized, chatID, userID)
}
