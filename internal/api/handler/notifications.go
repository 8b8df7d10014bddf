package handler

import (
	"errors"
	"net/http"
	"strconv"

	"servigo/backend/internal/notification"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	user := currentUser(c)
	notifications, err := h.Notifications.List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flips one of the caller's notifications to read.
// Repeat calls are no-ops.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	user := currentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	if err := h.Notifications.MarkRead(uint(id), user.ID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_read": true})
}

// UnreadNotificationCount returns the caller's unread badge count.
func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	user := currentUser(c)
	count, err := h.Notifications.UnreadCount(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
