package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cloudlocker/file-vault/internal/models"
	"github.com/cloudlocker/file-vault/internal/storage"
)

// FolderService handles owner-scoped folder operations, including the
// cascading delete of contained files and their blobs.
type FolderService struct {
	folders storage.FolderStore
	blobs   BlobStore
	events  *EventPublisher
}

func NewFolderService(folders storage.FolderStore, blobs BlobStore, events *EventPublisher) *FolderService {
	return &FolderService{folders: folders, blobs: blobs, events: events}
}

// CreateFolder requires a non-empty name. Duplicate names per owner are
// allowed on purpose.
func (s *FolderService) CreateFolder(ctx context.Context, ownerID, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Folder name is required")
	}

	folder := &models.Folder{
		ID:     uuid.New().String(),
		Name:   name,
		UserID: ownerID,
	}
	if err := s.folders.CreateFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder for user %s: %w", ownerID, err)
	}
	return folder, nil
}

// ListFolders returns the owner's folders, newest first, files attached.
func (s *FolderService) ListFolders(ctx context.Context, ownerID string) ([]models.Folder, error) {
	return s.folders.ListFolders(ctx, ownerID)
}

// GetFolder resolves a folder the owner can see, files attached. Foreign and
// absent folders are the same ErrNotFound.
func (s *FolderService) GetFolder(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
	folder, exists, err := s.folders.GetFolder(ctx, folderID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get folder %s for user %s: %w", folderID, ownerID, err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return folder, nil
}

// DeleteFolder issues one remote-delete attempt per contained file, then
// drops the folder row. File rows go with it via the FK cascade. The row is
// not removed until every remote delete has been attempted; individual
// attempt failures are logged and do not stop the deletion.
func (s *FolderService) DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	folder, exists, err := s.folders.GetFolder(ctx, folderID, ownerID)
	if err != nil {
		return fmt.Errorf("get folder %s for user %s: %w", folderID, ownerID, err)
	}
	if !exists {
		return ErrNotFound
	}

	for _, file := range folder.Files {
		objectName := s.blobs.ObjectNameFromLocator(file.Locator)
		if err := s.blobs.Remove(ctx, objectName); err != nil {
			log.Printf("warning: failed to delete object %s (file %s, folder %s, user %s): %v",
				objectName, file.ID, folderID, ownerID, err)
		}
	}

	deleted, err := s.folders.DeleteFolder(ctx, folderID, ownerID)
	if err != nil {
		return fmt.Errorf("delete folder %s for user %s: %w", folderID, ownerID, err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.events.Publish(SubjectFolderDeleted, FolderEvent{
		Action:     "deleted",
		FolderID:   folderID,
		FileCount:  len(folder.Files),
		UserID:     ownerID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}
