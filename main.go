package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"homestay-service-server/config"
	"homestay-service-server/database"
	"homestay-service-server/jobs"
	"homestay-service-server/middleware"
	"homestay-service-server/routes"
	ws "homestay-service-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Seed default data when requested
	if os.Getenv("SEED_DEFAULT_DATA") == "true" {
		seedDefaultData()
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Input validation
	router.Use(middleware.InputValidationMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// CORS
	corsConfig := cors.DefaultConfig()
	if len(config.AppConfig.CORS.AllowedOrigins) == 1 && config.AppConfig.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AppConfig.CORS.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Audit logging
	router.Use(middleware.AuditLogMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Homestay Service Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Staff task feed hub
	taskFeedHub := ws.NewHub()
	go taskFeedHub.Run()
	routes.InitTaskFeed(taskFeedHub)

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authGroup := api.Group("")
		authGroup.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authGroup)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.RegisterGuestRequestRoutes(protected)
			routes.RegisterRequestMediaRoutes(protected)
			routes.RegisterAdminRoutes(protected)
		}

		// Task feed WebSocket (token via query parameter)
		feed := api.Group("/ws")
		feed.Use(middleware.WebSocketAuthMiddleware())
		feed.GET("/tasks", ws.HandleStaffFeed(taskFeedHub))
	}

	// Background escalation of overdue scheduled requests
	escalationJob := jobs.NewEscalationJob(database.GetDB())
	escalationJob.Start()
	defer escalationJob.Stop()

	// Start server
	port := config.AppConfig.Server.Port
	log.Printf("🚀 Homestay Service Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
