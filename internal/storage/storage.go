package storage

import (
	"context"
	"time"

	"github.com/cloudlocker/file-vault/internal/models"
)

// The stores below are the metadata persistence contract. Services depend on
// these interfaces so tests can swap in doubles; Postgres implements all of
// them (see postgres.go).

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, bool, error)
}

type FileStore interface {
	CreateFile(ctx context.Context, file *models.File) error
	// GetFile returns false when the file is absent or owned by someone else.
	GetFile(ctx context.Context, fileID, userID string) (*models.File, bool, error)
	ListFiles(ctx context.Context, userID string) ([]models.File, error)
	ListRecentFiles(ctx context.Context, userID string, limit int) ([]models.File, error)
	CountFiles(ctx context.Context, userID string) (int64, error)
	DeleteFile(ctx context.Context, fileID, userID string) (bool, error)
	UpdateFileScanStatus(ctx context.Context, fileID, status string, scannedAt time.Time) error
}

type FolderStore interface {
	CreateFolder(ctx context.Context, folder *models.Folder) error
	// GetFolder returns the folder with its files attached; false when absent
	// or owned by someone else.
	GetFolder(ctx context.Context, folderID, userID string) (*models.Folder, bool, error)
	ListFolders(ctx context.Context, userID string) ([]models.Folder, error)
	CountFolders(ctx context.Context, userID string) (int64, error)
	// DeleteFolder removes the folder row; contained file rows go with it via
	// the FK cascade.
	DeleteFolder(ctx context.Context, folderID, userID string) (bool, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	// GetSession only returns sessions that have not expired.
	GetSession(ctx context.Context, token string) (*models.Session, bool, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
