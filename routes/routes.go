package routes

import (
	"fooddrop-api/handlers"
	"fooddrop-api/middleware"
	"fooddrop-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Phone authentication
		public.POST("/auth/send-otp", handlers.SendOTP)
		public.POST("/auth/verify-otp", handlers.VerifyOTP)

		// Restaurants & menus (no auth needed)
		public.GET("/restaurants", handlers.ListRestaurants)
		public.GET("/restaurants/popular", handlers.PopularRestaurants)
		public.GET("/restaurants/:id", handlers.GetRestaurant)
		public.GET("/restaurants/:id/menu", handlers.GetMenu)
		public.GET("/menu-items/:id", handlers.GetMenuItem)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.PUT("/profile", handlers.UpdateProfile)

		// Address book
		auth.GET("/addresses", handlers.ListAddresses)
		auth.POST("/addresses", handlers.CreateAddress)
		auth.GET("/addresses/recent", handlers.RecentAddresses)
		auth.GET("/addresses/saved", handlers.SavedAddresses)
		auth.GET("/addresses/:id", handlers.GetAddress)
		auth.PUT("/addresses/:id", handlers.UpdateAddress)
		auth.DELETE("/addresses/:id", handlers.DeleteAddress)

		// Orders, scoped by the caller's role
		auth.GET("/orders", handlers.ListOrders)
		auth.GET("/orders/:id", handlers.GetOrder)
		auth.GET("/orders/:id/items", handlers.ListOrderItems)
		auth.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		auth.PUT("/orders/:id/driver", handlers.ReassignDriver)

		// Reviews
		auth.GET("/reviews", handlers.ListReviews)

		// Notifications
		auth.GET("/notifications", handlers.ListNotifications)
		auth.PUT("/notifications/:id/read", handlers.MarkNotificationRead)

		// Kitchen staff roster (manager-gated inside the handlers)
		auth.GET("/kitchen-staff", handlers.ListKitchenStaff)
		auth.POST("/kitchen-staff", handlers.CreateKitchenStaff)
		auth.GET("/kitchen-staff/:id", handlers.GetKitchenStaff)
		auth.PUT("/kitchen-staff/:id", handlers.UpdateKitchenStaff)
		auth.DELETE("/kitchen-staff/:id", handlers.DeleteKitchenStaff)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", handlers.CreateOrder)
		customer.POST("/reviews", handlers.CreateReview)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := r.Group("/api/driver")
	driver.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/orders/available", handlers.GetAvailableOrders)
		driver.POST("/orders/:id/claim", handlers.ClaimOrder)
		driver.GET("/profile", handlers.GetDriverProfile)
		driver.PUT("/profile", handlers.UpdateDriverProfile)
	}
}
