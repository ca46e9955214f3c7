package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudlocker/file-vault/cmd/middleware"
	"github.com/cloudlocker/file-vault/internal/services"
)

// Handlers holds the injected services behind the JSON surface.
type Handlers struct {
	Auth       *services.AuthService
	Files      *services.FileService
	Folders    *services.FolderService
	CookieName string
}

func New(auth *services.AuthService, files *services.FileService, folders *services.FolderService, cookieName string) *Handlers {
	return &Handlers{Auth: auth, Files: files, Folders: folders, CookieName: cookieName}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Dashboard summarizes the caller's vault.
func (h *Handlers) Dashboard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	stats, err := h.Files.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "dashboard", userID, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// respondError maps service errors to statuses. Absent and foreign-owned
// resources share one message so existence never leaks; internal detail only
// goes to the log.
func respondError(c *gin.Context, op, userID string, err error) {
	if ve, ok := services.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "errors": ve.Messages})
		return
	}

	switch {
	case errors.Is(err, services.ErrNoFileProvided):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a file to upload"})
	case errors.Is(err, services.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the maximum allowed size"})
	case errors.Is(err, services.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type is not allowed"})
	case errors.Is(err, services.ErrFolderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found or access denied"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found or access denied"})
	case errors.Is(err, services.ErrRemoteStorage):
		log.Printf("[%s] user=%s remote storage error: %v", op, userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Storage service unavailable"})
	default:
		log.Printf("[%s] user=%s error: %v", op, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
