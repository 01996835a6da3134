package handlers

import (
	"net/http"

	"fooddrop-api/apperr"
	"fooddrop-api/config"
	"fooddrop-api/middleware"
	"fooddrop-api/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first
func ListNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var notifications []models.Notification
	query := config.DB.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}
	query.Order("created_at desc").Find(&notifications)
	c.JSON(http.StatusOK, gin.H{"count": len(notifications), "notifications": notifications})
}

// MarkNotificationRead flags one of the caller's notifications as read
func MarkNotificationRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var notification models.Notification
	if err := config.DB.Where("user_id = ?", userID).
		First(&notification, c.Param("id")).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "notification"))
		return
	}
	config.DB.Model(&notification).Update("read", true)
	c.JSON(http.StatusOK, gin.H{"notification": notification})
}
