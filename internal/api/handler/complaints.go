package handler

import (
	"errors"
	"net/http"
	"strconv"

	"servigo/backend/internal/models"
	"servigo/backend/internal/status"

	"github.com/gin-gonic/gin"
)

// SetComplaintStatus is the admin entry point into the status synchronizer.
func (h *Handler) SetComplaintStatus(c *gin.Context) {
	user, id, ok := h.adminWithID(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "status is required"})
		return
	}

	if err := h.Status.SetComplaintStatus(id, body.Status, user.ID); err != nil {
		writeStatusError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": body.Status})
}

// ReplyToComplaint stores the admin response and moves the complaint to
// "reviewed".
func (h *Handler) ReplyToComplaint(c *gin.Context) {
	user, id, ok := h.adminWithID(c)
	if !ok {
		return
	}

	var body struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "response is required"})
		return
	}

	if err := h.Status.ReplyToComplaint(id, body.Response, user.ID); err != nil {
		writeStatusError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": models.ComplaintStatusReviewed})
}

// WarnProvider issues a warning to the complaint's provider.
func (h *Handler) WarnProvider(c *gin.Context) {
	user, id, ok := h.adminWithID(c)
	if !ok {
		return
	}

	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "message is required"})
		return
	}

	warning, err := h.Status.WarnProvider(id, user.ID, body.Message)
	if err != nil {
		writeStatusError(c, err)
		return
	}
	c.JSON(http.StatusCreated, warning)
}

// SetRequestStatus updates a service request status. The assigned provider or
// an admin may change it (accept, complete, reject).
func (h *Handler) SetRequestStatus(c *gin.Context) {
	user := currentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	if user.Role != models.RoleAdmin {
		request, err := h.Storage.GetServiceRequestByID(uint(id))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
			return
		}
		if request.ProviderID == nil || *request.ProviderID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"msg": "forbidden"})
			return
		}
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "status is required"})
		return
	}

	if err := h.Status.SetRequestStatus(uint(id), body.Status, user.ID); err != nil {
		writeStatusError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": body.Status})
}

// ListWarnings returns the calling provider's warnings, newest first.
func (h *Handler) ListWarnings(c *gin.Context) {
	user := currentUser(c)
	warnings, err := h.Storage.ListWarningsForProvider(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}
	c.JSON(http.StatusOK, warnings)
}

func (h *Handler) adminWithID(c *gin.Context) (*CurrentUser, uint, bool) {
	user := currentUser(c)
	if user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"msg": "admin only"})
		return nil, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return nil, 0, false
	}
	return user, uint(id), true
}

func writeStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, status.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid status value"})
	case errors.Is(err, status.ErrNoProvider):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "complaint has no provider"})
	case errors.Is(err, status.ErrScopeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}
