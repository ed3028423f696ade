package main

import (
	"log"
	"os"
	"time"

	"finance-dashboard/api/db"
	"finance-dashboard/api/events"
	"finance-dashboard/api/handlers"
	"finance-dashboard/api/logger"
	"finance-dashboard/api/middleware"
	"finance-dashboard/api/mongodb"
	"finance-dashboard/api/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}
}

func main() {
	development := os.Getenv("GIN_MODE") != "release"
	if err := logger.Init(development, logger.LogLevel(os.Getenv("LOG_LEVEL"))); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer conn.Close()
	users := db.NewUsers(conn)

	mongoClient, err := mongodb.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongodb.Close(mongoClient)
	dashboards := mongodb.NewDashboards(mongoClient)

	broker := events.NewBroker()
	h := handlers.New(dashboards, users, broker)

	roller := worker.NewRoller(dashboards, broker, time.Hour)
	roller.Start()
	defer roller.Stop()

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"}) // Only trust local proxies
	router.Use(middleware.CorsMiddleware)

	// Auth routes
	router.POST("/auth/signup", h.Signup)
	router.POST("/auth/login", h.Login)

	// SSE route authenticates via query token, EventSource cannot set headers
	router.GET("/api/events", h.HandleEvents)

	// Dashboard API routes
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware)
	{
		api.GET("/dashboard", h.GetDashboard)
		api.PUT("/dashboard/:list", h.UpdateOverview)
		api.POST("/dashboard/:list", h.CreateEntry)
		api.PUT("/dashboard/:list/:id", h.UpdateEntry)
		api.DELETE("/dashboard/:list/:id", h.DeleteEntry)

		api.GET("/transactions/export", h.ExportTransactionsCSV)
		api.POST("/transactions/import", h.ImportTransactionsCSV)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
