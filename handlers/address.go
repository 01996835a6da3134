package handlers

import (
	"net/http"

	"fooddrop-api/apperr"
	"fooddrop-api/config"
	"fooddrop-api/middleware"
	"fooddrop-api/models"

	"github.com/gin-gonic/gin"
)

type AddressRequest struct {
	Label     string  `json:"label" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsSaved   bool    `json:"is_saved"`
	IsRecent  bool    `json:"is_recent"`
}

// ownAddress fetches an address owned by the caller. Foreign addresses are
// indistinguishable from missing ones.
func ownAddress(c *gin.Context) (*models.DeliveryAddress, error) {
	userID := middleware.GetUserID(c)
	var addr models.DeliveryAddress
	if err := config.DB.Where("user_id = ?", userID).
		First(&addr, c.Param("id")).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "address")
	}
	return &addr, nil
}

// ListAddresses returns every address of the caller
func ListAddresses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var addresses []models.DeliveryAddress
	config.DB.Where("user_id = ?", userID).Find(&addresses)
	c.JSON(http.StatusOK, gin.H{"count": len(addresses), "addresses": addresses})
}

// CreateAddress saves a new delivery address for the caller
func CreateAddress(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "label and address are required"))
		return
	}

	addr := models.DeliveryAddress{
		UserID:    userID,
		Label:     req.Label,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsSaved:   req.IsSaved,
		IsRecent:  req.IsRecent,
	}
	if err := config.DB.Create(&addr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": addr})
}

// GetAddress returns one of the caller's addresses
func GetAddress(c *gin.Context) {
	addr, err := ownAddress(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr})
}

// UpdateAddress updates a caller-owned address
func UpdateAddress(c *gin.Context) {
	addr, err := ownAddress(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "label and address are required"))
		return
	}

	config.DB.Model(addr).Updates(map[string]interface{}{
		"label":     req.Label,
		"address":   req.Address,
		"latitude":  req.Latitude,
		"longitude": req.Longitude,
		"is_saved":  req.IsSaved,
		"is_recent": req.IsRecent,
	})
	c.JSON(http.StatusOK, gin.H{"address": addr})
}

// DeleteAddress removes a caller-owned address
func DeleteAddress(c *gin.Context) {
	addr, err := ownAddress(c)
	if err != nil {
		respondError(c, err)
		return
	}
	config.DB.Delete(addr)
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

// RecentAddresses returns the caller's five most recently used addresses
func RecentAddresses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var addresses []models.DeliveryAddress
	config.DB.Where("user_id = ? AND is_recent = ?", userID, true).
		Order("updated_at desc").Limit(5).Find(&addresses)
	c.JSON(http.StatusOK, gin.H{"count": len(addresses), "addresses": addresses})
}

// SavedAddresses returns the caller's saved addresses
func SavedAddresses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var addresses []models.DeliveryAddress
	config.DB.Where("user_id = ? AND is_saved = ?", userID, true).Find(&addresses)
	c.JSON(http.StatusOK, gin.H{"count": len(addresses), "addresses": addresses})
}
