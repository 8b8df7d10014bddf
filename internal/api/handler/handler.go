package handler

import (
	"servigo/backend/internal/chat"
	"servigo/backend/internal/chathub"
	"servigo/backend/internal/notification"
	"servigo/backend/internal/status"
	"servigo/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler wires the HTTP surface to the realtime hub and the domain services.
type Handler struct {
	Hub           *chathub.Hub
	Chat          *chat.Service
	Status        *status.Synchronizer
	Notifications *notification.Service
	Storage       storage.Storage

	jwtSecret []byte
}

func NewHandler(hub *chathub.Hub, chatSvc *chat.Service, statusSvc *status.Synchronizer,
	notifSvc *notification.Service, s storage.Storage, jwtSecret string) *Handler {
	return &Handler{
		Hub:           hub,
		Chat:          chatSvc,
		Status:        statusSvc,
		Notifications: notifSvc,
		Storage:       s,
		jwtSecret:     []byte(jwtSecret),
	}
}

// RegisterRoutes mounts every route this core serves.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api/v1")
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(h.AuthRequired())
	{
		authed.GET("/complaints/:id/messages", h.ListComplaintMessages)
		authed.POST("/complaints/:id/messages", h.SendComplaintMessage)
		authed.GET("/service_requests/:id/messages", h.ListRequestMessages)
		authed.POST("/service_requests/:id/messages", h.SendRequestMessage)

		authed.PATCH("/complaints/:id/status", h.SetComplaintStatus)
		authed.POST("/complaints/:id/reply", h.ReplyToComplaint)
		authed.POST("/complaints/:id/warn_provider", h.WarnProvider)
		authed.PATCH("/service_requests/:id/status", h.SetRequestStatus)
		authed.GET("/warnings", h.ListWarnings)

		authed.GET("/notifications", h.ListNotifications)
		authed.POST("/notifications/:id/mark_read", h.MarkNotificationRead)
		authed.GET("/notifications/unread_count", h.UnreadNotificationCount)
	}
}
