package handlers

import (
	"net/http"

	"fooddrop-api/apperr"
	"fooddrop-api/config"
	"fooddrop-api/models"
	"fooddrop-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns all restaurants (public)
func ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := config.DB.Preload("Tags")

	if search := c.Query("search"); search != "" {
		query = query.
			Joins("LEFT JOIN restaurant_tags ON restaurant_tags.restaurant_id = restaurants.id").
			Joins("LEFT JOIN tags ON tags.id = restaurant_tags.tag_id").
			Where("restaurants.name LIKE ? OR tags.name LIKE ?", "%"+search+"%", "%"+search+"%").
			Distinct("restaurants.*")
	}
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}
	if c.Query("ordering") == "rating" {
		query = query.Order("rating desc")
	}

	query.Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single restaurant with its menu
func GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("Tags").Preload("MenuItems").
		First(&restaurant, c.Param("id")).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "restaurant"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the menu for a specific restaurant (public)
func GetMenu(c *gin.Context) {
	restaurantID := c.Param("id")
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "restaurant"))
		return
	}

	var items []models.MenuItem
	query := config.DB.Where("restaurant_id = ?", restaurantID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	query.Find(&items)

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"count":      len(items),
		"menu":       items,
	})
}

// GetMenuItem returns a single menu item
func GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "menu item"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_item": item})
}

// PopularRestaurants returns the ten highest-rated restaurants
func PopularRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	config.DB.Preload("Tags").Order("rating desc").Limit(10).Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"cancellation":    "any non-terminal state → cancelled, by customer, driver or kitchen_staff",
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"description":     "Food Delivery Order Lifecycle State Machine",
	})
}
