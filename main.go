package main

import (
	"context"
	"log"

	"household-backend/config"
	"household-backend/database"
	"household-backend/handlers"
	"household-backend/middleware"
	"household-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Start the reminder scheduler (bill due scanner + recurring matcher)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	services.GetReminderService().Start(ctx)

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// ==========================================
	// WEBHOOKS (public, invoked by providers)
	// ==========================================
	r.POST("/webhooks/payment", handlers.PaymentWebhook)

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// Profiles
		api.GET("/profiles", handlers.GetProfiles)
		api.GET("/profiles/me", handlers.GetProfile)
		api.PUT("/profiles/me", handlers.UpdateProfile)
		api.PUT("/profiles/me/fcm-token", handlers.UpdateFCMToken)
		api.DELETE("/profiles/:id", handlers.DeleteProfile)

		// General cleaning checklist
		api.GET("/cleaning", handlers.GetCleaningOverview)
		api.POST("/cleaning/tasks", handlers.AddCleaningTask)
		api.PUT("/cleaning/tasks/:id", handlers.UpdateCleaningTask)
		api.DELETE("/cleaning/tasks/:id", handlers.DeleteCleaningTask)
		api.POST("/cleaning/tasks/:id/toggle", handlers.ToggleCleaningTask)
		api.POST("/cleaning/assignee", handlers.ChangeCleaningAssignee)

		// Bills
		api.POST("/bills", handlers.CreateBill)
		api.GET("/bills", handlers.GetBills)
		api.GET("/bills/:id", handlers.GetBill)
		api.PUT("/bills/:id", handlers.UpdateBill)
		api.DELETE("/bills/:id", handlers.DeleteBill)
		api.POST("/bills/:id/toggle", handlers.ToggleBillStatus)

		// Recurring tasks
		api.POST("/recurring-tasks", handlers.CreateRecurringTask)
		api.GET("/recurring-tasks", handlers.GetRecurringTasks)
		api.PUT("/recurring-tasks/:id", handlers.UpdateRecurringTask)
		api.DELETE("/recurring-tasks/:id", handlers.DeleteRecurringTask)

		// Settings
		api.GET("/settings/max-tasks", handlers.GetMaxTasksSetting)
		api.PUT("/settings/max-tasks", handlers.UpdateMaxTasksSetting)

		// Activity + realtime
		api.GET("/activity", handlers.GetActivity)
		api.GET("/stream", handlers.StreamChanges)

		// Manual reminder trigger
		api.POST("/reminders/run", handlers.RunReminders)
	}

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
