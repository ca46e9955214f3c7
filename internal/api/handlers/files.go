package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudlocker/file-vault/cmd/middleware"
	"github.com/cloudlocker/file-vault/internal/models"
	"github.com/cloudlocker/file-vault/internal/services"
)

// ListFiles returns the caller's files, newest first.
func (h *Handlers) ListFiles(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	files, err := h.Files.ListFiles(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list_files", userID, err)
		return
	}
	if files == nil {
		files = []models.File{}
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// UploadForm returns the data the upload form needs: the caller's folders.
func (h *Handlers) UploadForm(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	folders, err := h.Folders.ListFolders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "upload_form", userID, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	c.JSON(http.StatusOK, gin.H{
		"folders":         folders,
		"selected_folder": c.Query("folder_id"),
	})
}

// UploadFile feeds the single "file" multipart field through the upload
// pipeline, optionally into a target folder.
func (h *Handlers) UploadFile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	fileHeader, err := singleFileField(c)
	if err != nil {
		respondError(c, "upload", userID, err)
		return
	}

	var folderID *string
	if v := c.PostForm("folder_id"); v != "" {
		folderID = &v
	}

	file, err := h.Files.Upload(c.Request.Context(), userID, fileHeader, folderID)
	if err != nil {
		respondError(c, "upload", userID, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    file,
	})
}

// singleFileField extracts exactly one "file" field from the multipart
// payload.
func singleFileField(c *gin.Context) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, services.ErrNoFileProvided
	}
	files := form.File["file"]
	switch len(files) {
	case 0:
		return nil, services.ErrNoFileProvided
	case 1:
		return files[0], nil
	default:
		return nil, &services.ValidationError{Messages: []string{"Please upload one file at a time"}}
	}
}

// GetFileInfo returns one file's metadata.
func (h *Handlers) GetFileInfo(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	file, err := h.Files.GetFile(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, "get_file", userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": file})
}

// DeleteFile removes the blob best-effort and the metadata row.
func (h *Handlers) DeleteFile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	fileID := c.Param("id")
	if err := h.Files.DeleteFile(c.Request.Context(), userID, fileID); err != nil {
		respondError(c, "delete_file", userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted successfully",
		"file_id": fileID,
	})
}
