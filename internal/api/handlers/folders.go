package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudlocker/file-vault/cmd/middleware"
	"github.com/cloudlocker/file-vault/internal/models"
)

type createFolderRequest struct {
	Name string `form:"name" json:"name"`
}

// ListFolders returns the caller's folders with their files attached.
func (h *Handlers) ListFolders(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	folders, err := h.Folders.ListFolders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list_folders", userID, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// CreateFolder makes a new folder; duplicate names are allowed.
func (h *Handlers) CreateFolder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req createFolderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder request"})
		return
	}

	folder, err := h.Folders.CreateFolder(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, "create_folder", userID, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Folder created successfully",
		"folder":  folder,
	})
}

// GetFolder returns one folder with its files.
func (h *Handlers) GetFolder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	folder, err := h.Folders.GetFolder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, "get_folder", userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder": folder})
}

// DeleteFolder cascades: one remote-delete attempt per contained file, then
// the folder and its file rows go away.
func (h *Handlers) DeleteFolder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	folderID := c.Param("id")
	if err := h.Folders.DeleteFolder(c.Request.Context(), userID, folderID); err != nil {
		respondError(c, "delete_folder", userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Folder deleted successfully",
		"folder_id": folderID,
	})
}
