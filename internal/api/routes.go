package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudlocker/file-vault/cmd/middleware"
	"github.com/cloudlocker/file-vault/internal/api/handlers"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, PATCH, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}

// RegisterRoutes wires the JSON surface. Everything below /files and /folders
// (and the dashboard) requires a live session.
func RegisterRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(corsMiddleware())

	r.GET("/health", handlers.HealthCheck)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/logout", h.Logout)
	}

	requireAuth := middleware.RequireAuth(h.Auth, h.CookieName)

	r.GET("/", requireAuth, h.Dashboard)

	files := r.Group("/files", requireAuth)
	{
		files.GET("", h.ListFiles)
		files.GET("/upload", h.UploadForm)
		files.POST("/upload", h.UploadFile)
		files.GET("/:id", h.GetFileInfo)
		// The HTML app deletes via GET links; API clients use DELETE.
		files.GET("/:id/delete", h.DeleteFile)
		files.DELETE("/:id/delete", h.DeleteFile)
	}

	folders := r.Group("/folders", requireAuth)
	{
		folders.GET("", h.ListFolders)
		folders.POST("", h.CreateFolder)
		folders.GET("/:id", h.GetFolder)
		folders.GET("/:id/delete", h.DeleteFolder)
		folders.DELETE("/:id/delete", h.DeleteFolder)
	}
}
