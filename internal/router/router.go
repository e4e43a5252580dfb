// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/config"
	"github.com/scholartrack/backend/internal/handlers"
	"github.com/scholartrack/backend/internal/middleware"
	"github.com/scholartrack/backend/internal/queue"
	"github.com/scholartrack/backend/internal/services"
	"github.com/scholartrack/backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, producer *queue.Producer) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, producer, cfg.Email, cfg.Frontend)
	storageService, _ := services.NewStorageService(cfg.AWS)

	authService := services.NewAuthService(db, cfg.JWT)
	applicationService := services.NewApplicationService(db, notificationService)
	scholarshipService := services.NewScholarshipService(db)
	adminService := services.NewAdminService(db)
	recommendationService := services.NewRecommendationService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, storageService)
	scholarshipHandler := handlers.NewScholarshipHandler(scholarshipService)
	adminHandler := handlers.NewAdminHandler(adminService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS([]string{cfg.Frontend.StudentBaseURL, cfg.Frontend.AdminBaseURL}))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
			auth.PUT("/me", middleware.AuthRequired(), authHandler.UpdateMe)
		}

		// Scholarship browsing (students)
		scholarships := v1.Group("/scholarships")
		{
			scholarships.GET("", middleware.OptionalAuth(), scholarshipHandler.List)
			scholarships.GET("/:id", middleware.OptionalAuth(), scholarshipHandler.Get)
		}

		// Application workflow (students)
		applications := v1.Group("/applications")
		applications.Use(middleware.AuthRequired())
		{
			applications.POST("/apply", middleware.UploadRateLimit(), applicationHandler.Apply)
			applications.GET("/my", applicationHandler.GetMyApplications)
			applications.GET("/:id", applicationHandler.GetApplication)
			applications.GET("/:id/timeline", applicationHandler.GetTimeline)
			applications.PUT("/:id", middleware.UploadRateLimit(), applicationHandler.Update)
			applications.PUT("/:id/withdraw", applicationHandler.Withdraw)
		}

		// Recommendations (students)
		v1.GET("/recommendations", middleware.AuthRequired(), recommendationHandler.Get)

		// Notifications
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// Dashboard
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)

			// Application review
			adminApplications := admin.Group("/applications")
			{
				adminApplications.GET("", applicationHandler.ListApplications)
				adminApplications.GET("/:id", applicationHandler.GetApplication)
				adminApplications.GET("/:id/timeline", applicationHandler.GetTimeline)
				adminApplications.PUT("/:id/status", applicationHandler.UpdateStatus)
			}

			// Scholarship management
			adminScholarships := admin.Group("/scholarships")
			{
				adminScholarships.GET("", scholarshipHandler.AdminList)
				adminScholarships.POST("", scholarshipHandler.Create)
				adminScholarships.PUT("/:id", scholarshipHandler.Update)
				adminScholarships.PUT("/:id/toggle", scholarshipHandler.ToggleStatus)
				adminScholarships.DELETE("/:id", scholarshipHandler.Delete)
			}

			// User management
			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.ListUsers)
				adminUsers.PUT("/:id", adminHandler.UpdateUser)
				adminUsers.PUT("/:id/status", adminHandler.SetUserStatus)
				adminUsers.DELETE("/:id", adminHandler.DeleteUser)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
