package models

import (
	"time"
)

// User is an account that owns folders and files. Rows are created at
// registration and never updated afterwards.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Folder groups files for a single owner. Duplicate names per owner are
// allowed. Deleting a folder cascades to its files.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Files     []File    `json:"files,omitempty"`
}

// File is the metadata record for one stored blob. Locator is the URL the
// blob store returned at upload time; FolderID is nil for unfiled files.
type File struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Locator     string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	ScanStatus  string    `json:"scan_status"`
	UserID      string    `json:"user_id"`
	FolderID    *string   `json:"folder_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session maps an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Scan status values recorded on files.
const (
	ScanStatusPending  = "pending"
	ScanStatusClean    = "clean"
	ScanStatusInfected = "infected"
)
