package handlers

import (
	"net/http"

	"fooddrop-api/apperr"
	"fooddrop-api/authz"
	"fooddrop-api/config"
	"fooddrop-api/middleware"
	"fooddrop-api/models"

	"github.com/gin-gonic/gin"
)

type KitchenStaffRequest struct {
	UserID       uint                 `json:"user_id" binding:"required"`
	RestaurantID uint                 `json:"restaurant_id" binding:"required"`
	Position     models.StaffPosition `json:"position" binding:"required"`
}

// ListKitchenStaff returns the roster: everything for managers and
// superusers, only the caller's own record for other kitchen staff.
func ListKitchenStaff(c *gin.Context) {
	actor := middleware.GetActor(c)

	query := config.DB.Preload("User").Preload("Restaurant")
	switch {
	case authz.CanManageStaff(actor):
		// full roster
	case actor.Role == models.RoleKitchenStaff:
		query = query.Where("user_id = ?", actor.UserID)
	default:
		respondError(c, apperr.Wrap(apperr.ErrUnauthorized, "kitchen staff roster"))
		return
	}

	var staff []models.KitchenStaff
	query.Find(&staff)
	c.JSON(http.StatusOK, gin.H{"count": len(staff), "kitchen_staff": staff})
}

// GetKitchenStaff returns one roster record
func GetKitchenStaff(c *gin.Context) {
	actor := middleware.GetActor(c)

	var record models.KitchenStaff
	if err := config.DB.Preload("User").Preload("Restaurant").
		First(&record, c.Param("id")).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "kitchen staff record"))
		return
	}
	if !authz.CanViewStaff(actor, &record) {
		respondError(c, apperr.Wrap(apperr.ErrUnauthorized, "kitchen staff record"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"kitchen_staff": record})
}

// CreateKitchenStaff links a kitchen_staff user to a restaurant (managers
// and superusers only)
func CreateKitchenStaff(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !authz.CanManageStaff(actor) {
		respondError(c, apperr.Wrap(apperr.ErrUnauthorized, "kitchen staff management"))
		return
	}

	var req KitchenStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "user_id, restaurant_id and position are required"))
		return
	}
	if !models.ValidPosition(req.Position) {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "invalid position %q", req.Position))
		return
	}

	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "user"))
		return
	}
	if user.Role != models.RoleKitchenStaff {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "user %d is not kitchen_staff", user.ID))
		return
	}
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "restaurant"))
		return
	}

	record := models.KitchenStaff{
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
		Position:     req.Position,
	}
	if err := config.DB.Create(&record).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrConflict, "user %d is already on a roster", req.UserID))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"kitchen_staff": record})
}

// UpdateKitchenStaff changes a record's restaurant or position (managers
// and superusers only)
func UpdateKitchenStaff(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !authz.CanManageStaff(actor) {
		respondError(c, apperr.Wrap(apperr.ErrUnauthorized, "kitchen staff management"))
		return
	}

	var record models.KitchenStaff
	if err := config.DB.First(&record, c.Param("id")).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "kitchen staff record"))
		return
	}

	var req struct {
		RestaurantID uint                 `json:"restaurant_id"`
		Position     models.StaffPosition `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "malformed body"))
		return
	}

	updates := map[string]interface{}{}
	if req.RestaurantID != 0 {
		var restaurant models.Restaurant
		if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.ErrNotFound, "restaurant"))
			return
		}
		updates["restaurant_id"] = req.RestaurantID
	}
	if req.Position != "" {
		if !models.ValidPosition(req.Position) {
			respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "invalid position %q", req.Position))
			return
		}
		updates["position"] = req.Position
	}
	if len(updates) > 0 {
		config.DB.Model(&record).Updates(updates)
	}
	c.JSON(http.StatusOK, gin.H{"kitchen_staff": record})
}

// DeleteKitchenStaff removes a roster record (managers and superusers only)
func DeleteKitchenStaff(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !authz.CanManageStaff(actor) {
		respondError(c, apperr.Wrap(apperr.ErrUnauthorized, "kitchen staff management"))
		return
	}

	var record models.KitchenStaff
	if err := config.DB.First(&record, c.Param("id")).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "kitchen staff record"))
		return
	}
	config.DB.Delete(&record)
	c.JSON(http.StatusOK, gin.H{"message": "Kitchen staff record removed"})
}
