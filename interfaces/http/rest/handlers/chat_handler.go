package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pawdopt-backend/application/services"
	"pawdopt-backend/pkg/auth"
	"pawdopt-backend/pkg/common"
	apperrors "pawdopt-backend/pkg/errors"
	"pawdopt-backend/pkg/utils"
)

// ChatHandler handles chat thread endpoints
type ChatHandler struct {
	chats  *services.ChatService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chats *services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chats:  chats,
		errors: apperrors.NewErrorHandler(logger),
		logger: logger,
	}
}

// CreateChatBody represents the request body for opening a chat
type CreateChatBody struct {
	AdopterID    string `json:"adopterId" validate:"required"`
	DogID        string `json:"dogId" validate:"required"`
	DogCreatedAt string `json:"dogCreatedAt"`
}

// DeactivateChatsBody identifies the winning adopter for the dog-adopted
// fan-out.
type DeactivateChatsBody struct {
	AdopterID string `json:"adopterId" validate:"required"`
	DogID     string `json:"dogId" validate:"required"`
}

// Create handles POST /chats
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}
	if !caller.IsShelter() {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("only shelters open chats"))
		return
	}

	var body CreateChatBody
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	c, err := h.chats.Create(r.Context(), caller.UserID, body.AdopterID, body.DogID, body.DogCreatedAt)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, c)
}

// Get handles GET /chats. With a chatId query parameter it returns that chat;
// without one it lists the caller's chats.
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	if chatID := r.URL.Query().Get("chatId"); chatID != "" {
		c, err := h.chats.Get(r.Context(), chatID)
		if err != nil {
			h.errors.Handle(w, r, err)
			return
		}
		if !c.HasParticipant(caller.UserID) {
			h.errors.Handle(w, r, apperrors.NewForbiddenError("caller is not a participant of this chat"))
			return
		}
		common.RespondJSON(w, http.StatusOK, c)
		return
	}

	chats, err := h.chats.List(r.Context(), caller.UserID, caller.Role)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// Deactivate handles POST /chats/deactivate. It closes every chat about the
// dog except the winning adopter's and reports which chats were updated.
func (h *ChatHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	var body DeactivateChatsBody
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	updated, err := h.chats.DeactivateCompeting(r.Context(), body.AdopterID, body.DogID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"updatedChats": updated})
}
