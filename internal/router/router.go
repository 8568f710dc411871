package router

import (
	"os"
	"time"

	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/handlers"
	"github.com/thankiuday/Phygital-sub005/internal/middleware"
	"github.com/thankiuday/Phygital-sub005/internal/services"
	"github.com/thankiuday/Phygital-sub005/internal/services/auth"
	"github.com/thankiuday/Phygital-sub005/internal/services/excel"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin router with all API routes
func SetupRouter(db *gorm.DB, scanService *services.ScanService, baseURL string) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Create a new router
	r := gin.New()

	// Use middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	fileRepo := repository.NewFileRepository(db)
	scanRepo := repository.NewScanEventRepository(db)
	draftStore := repository.NewWorkflowDraftRepository(db)

	// Create services
	authService := auth.NewAuthService(db)
	campaignService := services.NewCampaignService(campaignRepo, userRepo, baseURL)
	fileService := services.NewFileService(fileRepo, authService, baseURL)
	qrService := services.NewQRService(campaignRepo, fileService, baseURL)
	workflowService := services.NewWorkflowService(draftStore, campaignService, qrService)
	redirectService := services.NewRedirectService(campaignRepo)

	exportsDir := os.Getenv("EXPORTS_DIR")
	if exportsDir == "" {
		exportsDir = "./storage/exports"
	}
	excelService := excel.NewExcelService(scanRepo, campaignRepo, exportsDir)

	// Create middleware with services
	bearerTokenMiddleware := middleware.NewBearerTokenMiddleware(db)

	// Create handlers with services
	authHandler := handlers.NewAuthHandler(authService)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	fileHandler := handlers.NewFileHandler(fileService)
	workflowHandler := handlers.NewWorkflowHandler(workflowService)
	qrHandler := handlers.NewQRHandler(qrService, fileService)
	redirectHandler := handlers.NewRedirectHandler(redirectService, scanService)
	publicHandler := handlers.NewPublicHandler(db, fileService)
	scanHandler := handlers.NewScanHandler(scanService, campaignService, excelService, exportsDir)
	adminHandler := handlers.NewAdminHandler(db, authService, campaignService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Stable scan URL printed inside every QR code
	r.GET("/r/:id", redirectHandler.Redirect)

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.RefreshToken)
		}

		// Public landing page data
		api.GET("/public/campaigns/:id", publicHandler.GetPublicCampaign)

		// Token-signed downloads (used by landing pages)
		api.GET("/files/download", fileHandler.DownloadFileByToken)

		// Protected routes
		protected := api.Group("")
		protected.Use(bearerTokenMiddleware.BearerTokenAuthMiddleware())
		{
			// Auth protected routes
			authProtected := protected.Group("/auth")
			{
				authProtected.POST("/logout", authHandler.Logout)
				authProtected.GET("/me", authHandler.GetMe)
				authProtected.POST("/change-password", authHandler.ChangePassword)
			}

			// Campaign routes
			campaigns := protected.Group("/campaigns")
			{
				campaigns.POST("", campaignHandler.CreateCampaign)
				campaigns.GET("", campaignHandler.GetMyCampaigns)
				campaigns.GET("/:id", campaignHandler.GetCampaignByID)
				campaigns.PUT("/:id", campaignHandler.UpdateCampaign)
				campaigns.DELETE("/:id", campaignHandler.DeleteCampaign)
				campaigns.POST("/:id/upgrade", campaignHandler.UpgradeCampaign)
				campaigns.POST("/:id/pause", campaignHandler.PauseCampaign)
				campaigns.POST("/:id/resume", campaignHandler.ResumeCampaign)
				campaigns.PUT("/:id/social-links", campaignHandler.UpdateSocialLinks)
				campaigns.PUT("/:id/qr-placement", campaignHandler.UpdateQRPlacement)
				campaigns.PUT("/:id/qr-design", campaignHandler.UpdateQRDesign)

				campaigns.POST("/:id/qr/preview", qrHandler.RenderPreview)
				campaigns.POST("/:id/qr/artifact", qrHandler.GenerateArtifact)

				campaigns.GET("/:id/scans", scanHandler.GetScans)
				campaigns.GET("/:id/scans/stats", scanHandler.GetScanStats)
				campaigns.GET("/:id/scans/export", scanHandler.ExportScans)
			}

			// Upload workflow routes
			workflows := protected.Group("/workflows")
			{
				workflows.GET("/:key", workflowHandler.GetWorkflowState)
				workflows.POST("/:key", workflowHandler.OpenWorkflow)
				workflows.DELETE("/:key", workflowHandler.DiscardWorkflow)
				workflows.POST("/:key/steps/:step", workflowHandler.CompleteStep)
				workflows.POST("/:key/back", workflowHandler.StepBack)
			}

			// File routes
			files := protected.Group("/files")
			{
				files.POST("/upload", fileHandler.UploadFile)
				files.GET("", fileHandler.GetUserFiles)
				files.GET("/:id", fileHandler.GetFile)
				files.GET("/:id/download", fileHandler.DownloadFile)
				files.GET("/:id/signed-url", fileHandler.GetSignedDownloadURL)
				files.DELETE("/:id", fileHandler.DeleteFile)
			}

			// Exported reports
			protected.GET("/exports/:filename", scanHandler.DownloadExport)

			// Admin routes (requires admin privileges)
			admin := protected.Group("/admin")
			admin.Use(bearerTokenMiddleware.AdminOnlyMiddleware())
			{
				admin.GET("/users", adminHandler.GetUsers)
				admin.PUT("/users/:id/active", adminHandler.SetUserActive)
				admin.GET("/campaigns", adminHandler.GetAllCampaigns)
			}
		}
	}

	return r
}
