package handler

import (
	"errors"
	"net/http"
	"strconv"

	"servigo/backend/internal/chat"
	"servigo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ListComplaintMessages returns a complaint's chat history, oldest first.
func (h *Handler) ListComplaintMessages(c *gin.Context) {
	h.listMessages(c, models.ScopeComplaint)
}

// SendComplaintMessage appends a message to a complaint chat.
func (h *Handler) SendComplaintMessage(c *gin.Context) {
	h.sendMessage(c, models.ScopeComplaint)
}

// ListRequestMessages returns a service request's chat history, oldest first.
func (h *Handler) ListRequestMessages(c *gin.Context) {
	h.listMessages(c, models.ScopeServiceRequest)
}

// SendRequestMessage appends a message to a service request chat.
func (h *Handler) SendRequestMessage(c *gin.Context) {
	h.sendMessage(c, models.ScopeServiceRequest)
}

func (h *Handler) listMessages(c *gin.Context, scope models.ScopeType) {
	key, ok := scopeParam(c, scope)
	if !ok {
		return
	}
	user := currentUser(c)
	if err := h.Chat.Authorize(key, user.ID, user.Role); err != nil {
		writeChatError(c, err)
		return
	}

	messages, err := h.Chat.History(key)
	if err != nil {
		writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) sendMessage(c *gin.Context, scope models.ScopeType) {
	key, ok := scopeParam(c, scope)
	if !ok {
		return
	}
	user := currentUser(c)
	if err := h.Chat.Authorize(key, user.ID, user.Role); err != nil {
		writeChatError(c, err)
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	payload, err := h.Chat.Send(key, user.ID, body.Message)
	if err != nil {
		writeChatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

func scopeParam(c *gin.Context, scope models.ScopeType) (models.RoomKey, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return models.RoomKey{}, false
	}
	return models.RoomKey{Type: scope, ID: uint(id)}, true
}

// writeChatError maps the chat error taxonomy onto HTTP statuses: validation
// 400, policy 403, missing scope 404.
func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "message cannot be empty"})
	case errors.Is(err, chat.ErrChatClosed):
		c.JSON(http.StatusForbidden, gin.H{"msg": "chat is closed"})
	case errors.Is(err, chat.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"msg": "not a participant"})
	case errors.Is(err, chat.ErrScopeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}
