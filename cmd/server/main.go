package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thankiuday/Phygital-sub005/docs"
	"github.com/thankiuday/Phygital-sub005/internal/database"
	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/router"
	"github.com/thankiuday/Phygital-sub005/internal/services"
	"github.com/thankiuday/Phygital-sub005/internal/services/auth"
	"github.com/thankiuday/Phygital-sub005/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title Phygital Backend API
// @version 1.0
// @description QR campaign backend: QR rendering, campaign management, upload workflows and scan analytics

// @contact.name API Support
// @contact.email support@phygital.app

// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter `Bearer ` followed by your JWT token (e.g. "Bearer <token>")

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Public base URL, used for redirect and landing URLs baked into QR codes
	baseURL := getEnv("BASE_URL", "http://localhost:8080")
	docs.SwaggerInfo.BasePath = "/"

	// Configure logging
	configureLogging()

	// Initialize Sentry
	utils.InitSentry()

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize auth service
	authService := auth.NewAuthService(db)

	// Initialize RabbitMQ service. Scan events survive without it; they
	// are persisted inline instead of through the queue.
	scanRepo := repository.NewScanEventRepository(db)
	var rabbitMQService *services.RabbitMQService
	rabbitMQService, err = services.NewRabbitMQService()
	if err != nil {
		logrus.Warnf("Failed to initialize RabbitMQ, scan events will be persisted inline: %v", err)
		rabbitMQService = nil
	} else {
		logrus.Info("RabbitMQ service initialized")
		defer rabbitMQService.Close()
	}

	scanService := services.NewScanService(scanRepo, rabbitMQService)
	if rabbitMQService != nil {
		if err := scanService.StartConsumer(); err != nil {
			logrus.Warnf("Failed to start scan event consumer: %v", err)
		} else {
			logrus.Info("Scan event consumer started")
			defer scanService.Stop()
		}
	}

	// Create admin user if not exists
	if err := authService.CreateAdminUser(); err != nil {
		logrus.Warnf("Failed to create admin user: %v", err)
	}

	// Initialize token cleanup service
	tokenCleanupService := auth.NewTokenCleanupService(db)
	tokenCleanupService.Start()
	defer tokenCleanupService.Stop()

	// Initialize router
	r := router.SetupRouter(db, scanService, baseURL)

	// Configure HTTP server
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
