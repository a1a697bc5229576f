package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aiu/stimulus/internal/app/controllers"
	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	applicationController *controllers.ApplicationController,
	paperController *controllers.PaperController,
	coauthorController *controllers.CoauthorController,
	metaController *controllers.MetaController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/register", authController.Register)
	}

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetMe)
		authenticated.PATCH("/auth/me", authController.UpdateMe)

		meta := authenticated.Group("/meta")
		{
			meta.GET("/faculties", metaController.Faculties)
			meta.GET("/indexation", metaController.Indexation)
			meta.GET("/report_years", metaController.ReportYears)
		}

		applications := authenticated.Group("/applications")
		{
			applications.GET("", applicationController.List)
			applications.POST("", applicationController.Create)
			applications.GET("/:id", applicationController.Get)
			applications.PATCH("/:id", applicationController.Update)
			applications.DELETE("/:id", applicationController.Delete)
			applications.POST("/:id/submit", applicationController.Submit)

			// Admin-only application actions
			applicationsAdmin := applications.Group("")
			applicationsAdmin.Use(authMiddleware.AdminRequired())
			{
				applicationsAdmin.POST("/:id/approve", applicationController.Approve)
				applicationsAdmin.POST("/:id/reject", applicationController.Reject)
				applicationsAdmin.GET("/:id/docx", applicationController.DownloadDocx)
				applicationsAdmin.GET("/export_xlsx", applicationController.ExportXLSX)
			}
		}

		papers := authenticated.Group("/papers")
		{
			papers.GET("", paperController.List)
			papers.POST("", paperController.Create)
			papers.GET("/:id", paperController.Get)
			papers.PATCH("/:id", paperController.Update)
			papers.DELETE("/:id", paperController.Delete)
		}

		coauthors := authenticated.Group("/coauthors")
		{
			coauthors.GET("", coauthorController.List)
			coauthors.POST("", coauthorController.Create)
			coauthors.GET("/:id", coauthorController.Get)
			coauthors.PATCH("/:id", coauthorController.Update)
			coauthors.DELETE("/:id", coauthorController.Delete)
		}
	}
}
