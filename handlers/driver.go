package handlers

import (
	"net/http"

	"fooddrop-api/apperr"
	"fooddrop-api/config"
	"fooddrop-api/middleware"
	"fooddrop-api/models"
	"fooddrop-api/notifier"

	"github.com/gin-gonic/gin"
)

// GetAvailableOrders shows orders that are ready and have no driver assigned
func GetAvailableOrders(c *gin.Context) {
	var orders []models.Order
	config.DB.Preload("Restaurant").Preload("DeliveryAddress").
		Where("status = ? AND driver_id IS NULL", models.StatusReady).
		Order("created_at asc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ClaimOrder assigns the calling driver to a ready order and moves it to
// picking_up in one guarded write. Losing a race to another driver is a
// conflict, not an error in the caller's request.
func ClaimOrder(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "order"))
		return
	}
	if order.DriverID != nil {
		respondError(c, apperr.Wrap(apperr.ErrConflict, "order %s already has a driver", order.OrderNumber))
		return
	}
	if order.Status != models.StatusReady {
		respondError(c, apperr.Wrap(apperr.ErrInvalidTransition, "order %s is %s, not ready for pickup", order.OrderNumber, order.Status))
		return
	}

	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND version = ? AND driver_id IS NULL", order.ID, order.Version).
		Updates(map[string]interface{}{
			"driver_id": driverID,
			"status":    models.StatusPickingUp,
			"version":   order.Version + 1,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim order"})
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.Wrap(apperr.ErrConflict, "order %s was claimed concurrently", order.OrderNumber))
		return
	}

	prevStatus := order.Status
	order.DriverID = &driverID
	order.Status = models.StatusPickingUp
	order.Version++

	Notify.Emit(notifier.StatusChanged{Order: &order, From: prevStatus, To: models.StatusPickingUp},
		[]notifier.Recipient{{UserID: order.CustomerID, Kind: notifier.KindCustomer}})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order claimed",
		"order_id": order.ID,
		"status":   order.Status,
		"version":  order.Version,
	})
}

type ReassignDriverRequest struct {
	DriverID uint `json:"driver_id" binding:"required"`
}

// ReassignDriver replaces the driver on an order that is still ready.
// Only a manager of the order's restaurant (or a superuser) may do this;
// after pickup the assignment is final.
func ReassignDriver(c *gin.Context) {
	actor := middleware.GetActor(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "order"))
		return
	}
	if !actor.IsSuperuser {
		if actor.Role != models.RoleKitchenStaff ||
			actor.Position != models.PositionManager ||
			actor.RestaurantID != order.RestaurantID {
			respondError(c, apperr.Wrap(apperr.ErrUnauthorized, "only a manager of this restaurant may reassign drivers"))
			return
		}
	}
	if order.Status != models.StatusReady {
		respondError(c, apperr.Wrap(apperr.ErrConflict, "driver assignment is final once the order is %s", order.Status))
		return
	}

	var req ReassignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "driver_id is required"))
		return
	}
	var driver models.User
	if err := config.DB.Where("role = ?", models.RoleDriver).First(&driver, req.DriverID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "driver"))
		return
	}

	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"driver_id": driver.ID,
			"version":   order.Version + 1,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign driver"})
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.Wrap(apperr.ErrConflict, "order %s was updated concurrently", order.OrderNumber))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Driver reassigned",
		"order_id":  order.ID,
		"driver_id": driver.ID,
	})
}

// GetDriverProfile returns the caller's driver profile, creating an empty
// one on first fetch.
func GetDriverProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var profile models.DriverProfile
	if err := config.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		profile = models.DriverProfile{UserID: userID}
		config.DB.Create(&profile)
	}
	c.JSON(http.StatusOK, gin.H{"driver_profile": profile})
}

type DriverProfileRequest struct {
	VehicleType  string `json:"vehicle_type"`
	VehicleBrand string `json:"vehicle_brand"`
	VehicleModel string `json:"vehicle_model"`
	PlateNumber  string `json:"plate_number"`
	Color        string `json:"color"`
}

// UpdateDriverProfile updates the caller's vehicle details
func UpdateDriverProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req DriverProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "malformed body"))
		return
	}

	var profile models.DriverProfile
	if err := config.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		profile = models.DriverProfile{UserID: userID}
		config.DB.Create(&profile)
	}
	config.DB.Model(&profile).Updates(map[string]interface{}{
		"vehicle_type":  req.VehicleType,
		"vehicle_brand": req.VehicleBrand,
		"vehicle_model": req.VehicleModel,
		"plate_number":  req.PlateNumber,
		"color":         req.Color,
	})
	c.JSON(http.StatusOK, gin.H{"driver_profile": profile})
}
