package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/cloudlocker/file-vault/internal/configuration"
	"github.com/cloudlocker/file-vault/internal/models"
	"github.com/cloudlocker/file-vault/internal/storage"
)

// BlobStore is the remote object-storage capability the file services depend
// on. internal/blob implements it on MinIO.
type BlobStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
	ObjectName(fileID string) string
	ObjectNameFromLocator(locator string) string
}

// FileService runs the upload pipeline and the owner-scoped file operations.
type FileService struct {
	files   storage.FileStore
	folders storage.FolderStore
	blobs   BlobStore
	policy  configuration.UploadConfig
	allowed map[string]bool
	events  *EventPublisher
	scanner *Scanner
}

func NewFileService(files storage.FileStore, folders storage.FolderStore, blobs BlobStore, policy configuration.UploadConfig, events *EventPublisher, scanner *Scanner) *FileService {
	allowed := make(map[string]bool, len(policy.AllowedTypes))
	for _, t := range policy.AllowedTypes {
		allowed[t] = true
	}
	return &FileService{
		files:   files,
		folders: folders,
		blobs:   blobs,
		policy:  policy,
		allowed: allowed,
		events:  events,
		scanner: scanner,
	}
}

// Upload runs the pipeline: validate, push the blob, commit the metadata row.
// The remote write happens before the metadata commit, so a failed upload
// leaves no record; a failed commit removes the fresh object best-effort.
func (s *FileService) Upload(ctx context.Context, ownerID string, fileHeader *multipart.FileHeader, folderID *string) (*models.File, error) {
	if fileHeader == nil {
		return nil, ErrNoFileProvided
	}
	if fileHeader.Size > s.policy.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, fileHeader.Size, s.policy.MaxBytes)
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !s.allowed[contentType] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	// A bad target folder must fail before any side effect.
	if folderID != nil {
		_, exists, err := s.folders.GetFolder(ctx, *folderID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("lookup folder %s: %w", *folderID, err)
		}
		if !exists {
			return nil, ErrFolderNotFound
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	fileID := uuid.New().String()
	objectName := s.blobs.ObjectName(fileID)

	locator, err := s.blobs.Put(ctx, objectName, src, fileHeader.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: put %s: %v", ErrRemoteStorage, objectName, err)
	}

	file := &models.File{
		ID:          fileID,
		Name:        fileHeader.Filename,
		Locator:     locator,
		Size:        fileHeader.Size,
		ContentType: contentType,
		ScanStatus:  models.ScanStatusPending,
		UserID:      ownerID,
		FolderID:    folderID,
	}
	if err := s.files.CreateFile(ctx, file); err != nil {
		if delErr := s.blobs.Remove(ctx, objectName); delErr != nil {
			log.Printf("warning: failed to clean up object %s after metadata failure: %v", objectName, delErr)
		}
		return nil, fmt.Errorf("save file metadata for user %s: %w", ownerID, err)
	}

	s.events.Publish(SubjectFileUploaded, FileEvent{
		Action:     "uploaded",
		FileID:     file.ID,
		ObjectName: objectName,
		Size:       file.Size,
		UserID:     file.UserID,
		OccurredAt: time.Now().UTC(),
	})
	s.scanner.ScanAsync(file.ID, objectName)

	return file, nil
}

// ListFiles returns the owner's files, newest first.
func (s *FileService) ListFiles(ctx context.Context, ownerID string) ([]models.File, error) {
	return s.files.ListFiles(ctx, ownerID)
}

// GetFile resolves a file the owner can see. Foreign and absent files are the
// same ErrNotFound.
func (s *FileService) GetFile(ctx context.Context, ownerID, fileID string) (*models.File, error) {
	file, exists, err := s.files.GetFile(ctx, fileID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get file %s for user %s: %w", fileID, ownerID, err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return file, nil
}

// DeleteFile removes the blob (best-effort) and then the metadata row.
func (s *FileService) DeleteFile(ctx context.Context, ownerID, fileID string) error {
	file, exists, err := s.files.GetFile(ctx, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("get file %s for user %s: %w", fileID, ownerID, err)
	}
	if !exists {
		return ErrNotFound
	}

	objectName := s.blobs.ObjectNameFromLocator(file.Locator)
	if err := s.blobs.Remove(ctx, objectName); err != nil {
		// The metadata row still goes away; an orphaned object beats a
		// deletion the user cannot complete.
		log.Printf("warning: failed to delete object %s (file %s, user %s): %v", objectName, fileID, ownerID, err)
	}

	deleted, err := s.files.DeleteFile(ctx, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("delete file %s for user %s: %w", fileID, ownerID, err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.events.Publish(SubjectFileDeleted, FileEvent{
		Action:     "deleted",
		FileID:     fileID,
		ObjectName: objectName,
		UserID:     ownerID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// DashboardStats summarizes an owner's vault for the landing page.
type DashboardStats struct {
	FileCount   int64         `json:"file_count"`
	FolderCount int64         `json:"folder_count"`
	RecentFiles []models.File `json:"recent_files"`
}

func (s *FileService) Stats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	fileCount, err := s.files.CountFiles(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count files for user %s: %w", ownerID, err)
	}
	folderCount, err := s.folders.CountFolders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count folders for user %s: %w", ownerID, err)
	}
	recent, err := s.files.ListRecentFiles(ctx, ownerID, 5)
	if err != nil {
		return nil, fmt.Errorf("list recent files for user %s: %w", ownerID, err)
	}
	return &DashboardStats{
		FileCount:   fileCount,
		FolderCount: folderCount,
		RecentFiles: recent,
	}, nil
}
