package handlers

import (
	"encoding/binary"
	"fmt"
	"net/http"

	"fooddrop-api/apperr"
	"fooddrop-api/authz"
	"fooddrop-api/config"
	"fooddrop-api/middleware"
	"fooddrop-api/models"
	"fooddrop-api/notifier"
	"fooddrop-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const deliveryFee = 2.50

type CreateOrderRequest struct {
	RestaurantID      uint                 `json:"restaurant_id" binding:"required"`
	DeliveryAddressID uint                 `json:"delivery_address_id" binding:"required"`
	PaymentMethod     models.PaymentMethod `json:"payment_method"`
	Notes             string               `json:"notes"`
	Items             []struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// generateOrderNumber derives an ORD-<5 digits> number from a UUID and
// retries on the rare collision with an existing order.
func generateOrderNumber(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < 20; attempt++ {
		u := uuid.New()
		n := binary.BigEndian.Uint32(u[0:4]) % 100000
		candidate := fmt.Sprintf("ORD-%05d", n)

		var count int64
		if err := db.Model(&models.Order{}).
			Where("order_number = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("order number space exhausted")
}

// CreateOrder places a new order: snapshots the line items from the current
// menu, persists the aggregate and fans out OrderCreated notifications.
func CreateOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "restaurant, address and at least one item are required"))
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}
	if req.PaymentMethod != models.PaymentCash && req.PaymentMethod != models.PaymentCard {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "payment method must be cash or card"))
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "restaurant"))
		return
	}
	if !restaurant.IsActive {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "restaurant is not accepting orders"))
		return
	}

	var address models.DeliveryAddress
	if err := config.DB.Where("user_id = ?", customerID).
		First(&address, req.DeliveryAddressID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "delivery address"))
		return
	}

	// Snapshot the line items. These copies never change again, even if the
	// menu item is edited or removed later.
	var orderItems []models.OrderItem
	var total float64
	for _, reqItem := range req.Items {
		var menuItem models.MenuItem
		if err := config.DB.First(&menuItem, reqItem.MenuItemID).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "menu item %d not found", reqItem.MenuItemID))
			return
		}
		if menuItem.RestaurantID != req.RestaurantID {
			respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "menu item %q does not belong to this restaurant", menuItem.Name))
			return
		}
		if !menuItem.IsAvailable {
			respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "menu item %q is not available", menuItem.Name))
			return
		}
		total += menuItem.Price * float64(reqItem.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID:  menuItem.ID,
			Name:        menuItem.Name,
			Description: menuItem.Description,
			Price:       menuItem.Price,
			Category:    menuItem.Category,
			Quantity:    reqItem.Quantity,
		})
	}

	orderNumber, err := generateOrderNumber(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate order number"})
		return
	}

	order := models.Order{
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		RestaurantID:      req.RestaurantID,
		DeliveryAddressID: address.ID,
		Status:            models.StatusPending,
		PaymentMethod:     req.PaymentMethod,
		Total:             total + deliveryFee,
		DeliveryFee:       deliveryFee,
		Notes:             req.Notes,
		Items:             orderItems,
	}

	// The order and its items are one transaction; notification fan-out is
	// deliberately outside it and best-effort.
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Model(&address).Update("is_recent", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	var customer models.User
	config.DB.First(&customer, customerID)
	recipients := []notifier.Recipient{{UserID: customerID, Kind: notifier.KindCustomer}}
	var staff []models.KitchenStaff
	config.DB.Where("restaurant_id = ?", req.RestaurantID).Find(&staff)
	for _, s := range staff {
		recipients = append(recipients, notifier.Recipient{UserID: s.UserID, Kind: notifier.KindStaff})
	}
	Notify.Emit(notifier.OrderCreated{Order: &order, CustomerName: customer.Name}, recipients)

	config.DB.Preload("Items").Preload("Restaurant").Preload("DeliveryAddress").First(&order, order.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// ListOrders returns the orders visible to the caller under their role scope
func ListOrders(c *gin.Context) {
	actor := middleware.GetActor(c)

	var orders []models.Order
	query := config.DB.Scopes(authz.VisibleOrders(actor)).
		Preload("Items").Preload("Restaurant").Preload("DeliveryAddress").Preload("Driver")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)

	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// scopedOrder fetches one order under the caller's visibility scope. Orders
// outside the scope are indistinguishable from missing ones.
func scopedOrder(c *gin.Context, actor authz.Actor) (*models.Order, error) {
	var order models.Order
	if err := config.DB.Scopes(authz.VisibleOrders(actor)).
		First(&order, c.Param("id")).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "order")
	}
	return &order, nil
}

// GetOrder returns a single order's full detail
func GetOrder(c *gin.Context) {
	actor := middleware.GetActor(c)
	order, err := scopedOrder(c, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	config.DB.Preload("Items").Preload("Restaurant").Preload("DeliveryAddress").
		Preload("Customer").Preload("Driver").First(order, order.ID)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrderItems returns the immutable line-item snapshots of an order
func ListOrderItems(c *gin.Context) {
	actor := middleware.GetActor(c)
	order, err := scopedOrder(c, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	var items []models.OrderItem
	config.DB.Where("order_id = ?", order.ID).Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	// Version is the optimistic-concurrency token the caller read. When
	// omitted the current value is used, which still serializes against
	// concurrent writers.
	Version *int `json:"version"`
}

// UpdateOrderStatus moves an order along its lifecycle. The transition table
// decides which actor may trigger which edge; a version mismatch on the
// write means a concurrent update won and the caller must re-read.
func UpdateOrderStatus(c *gin.Context) {
	actor := middleware.GetActor(c)
	order, err := scopedOrder(c, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "status is required"))
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, actor.Role); err != nil {
		respondError(c, err)
		return
	}

	expected := order.Version
	if req.Version != nil {
		expected = *req.Version
	}

	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, expected).
		Updates(map[string]interface{}{
			"status":  req.Status,
			"version": expected + 1,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.Wrap(apperr.ErrConflict, "order %s was updated concurrently", order.OrderNumber))
		return
	}

	prevStatus := order.Status
	order.Status = req.Status
	order.Version = expected + 1

	recipients := []notifier.Recipient{{UserID: order.CustomerID, Kind: notifier.KindCustomer}}
	if order.DriverID != nil && *order.DriverID != actor.UserID {
		recipients = append(recipients, notifier.Recipient{UserID: *order.DriverID, Kind: notifier.KindDriver})
	}
	Notify.Emit(notifier.StatusChanged{Order: order, From: prevStatus, To: req.Status}, recipients)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"current_status":  req.Status,
		"version":         order.Version,
	})
}

type ReviewRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview lets a customer review one of their delivered orders
func CreateReview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "order_id and rating (1-5) are required"))
		return
	}

	var order models.Order
	if err := config.DB.Where("customer_id = ?", userID).First(&order, req.OrderID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "order"))
		return
	}
	if order.Status != models.StatusDelivered {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "only delivered orders can be reviewed"))
		return
	}

	review := models.Review{
		UserID:  userID,
		OrderID: order.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListReviews returns the caller's reviews
func ListReviews(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var reviews []models.Review
	config.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&reviews)
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}
