// internal/handlers/notification.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scholartrack/backend/internal/services"
	"github.com/scholartrack/backend/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	notifications, err := h.notificationService.GetUserNotifications(userID, limit)
	if err != nil {
		handleServiceError(c, err, "Notifications")
		return
	}

	utils.SuccessResponse(c, notifications)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(userID, notificationID); err != nil {
		handleServiceError(c, err, "Notification")
		return
	}

	utils.SuccessResponse(c, gin.H{"read": true})
}
