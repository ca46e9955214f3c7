package services

import (
	"context"
	"io"
	"time"

	"github.com/cloudlocker/file-vault/internal/blob"
	"github.com/cloudlocker/file-vault/internal/models"
	"github.com/cloudlocker/file-vault/internal/storage"
)

// --- in-memory store doubles ---

type fakeUserStore struct {
	users     map[string]*models.User // keyed by username
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.users[user.Username]; exists {
		return storage.ErrDuplicate
	}
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.Username] = &cp
	return nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, bool, error) {
	user, exists := f.users[username]
	if !exists {
		return nil, false, nil
	}
	cp := *user
	return &cp, true, nil
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, session *models.Session) error {
	cp := *session
	f.sessions[session.Token] = &cp
	return nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, token string) (*models.Session, bool, error) {
	session, exists := f.sessions[token]
	if !exists || !session.ExpiresAt.After(time.Now()) {
		return nil, false, nil
	}
	cp := *session
	return &cp, true, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionStore) DeleteExpiredSessions(_ context.Context) (int64, error) {
	var n int64
	for token, session := range f.sessions {
		if !session.ExpiresAt.After(time.Now()) {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

type fakeFileStore struct {
	files     map[string]*models.File
	order     []string
	seq       int
	createErr error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string]*models.File)}
}

func (f *fakeFileStore) CreateFile(_ context.Context, file *models.File) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	file.CreatedAt = time.Unix(int64(f.seq), 0)
	cp := *file
	f.files[file.ID] = &cp
	f.order = append(f.order, file.ID)
	return nil
}

func (f *fakeFileStore) GetFile(_ context.Context, fileID, userID string) (*models.File, bool, error) {
	file, exists := f.files[fileID]
	if !exists || file.UserID != userID {
		return nil, false, nil
	}
	cp := *file
	return &cp, true, nil
}

func (f *fakeFileStore) ListFiles(_ context.Context, userID string) ([]models.File, error) {
	var out []models.File
	for i := len(f.order) - 1; i >= 0; i-- {
		if file, exists := f.files[f.order[i]]; exists && file.UserID == userID {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (f *fakeFileStore) ListRecentFiles(ctx context.Context, userID string, limit int) ([]models.File, error) {
	files, err := f.ListFiles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

func (f *fakeFileStore) CountFiles(ctx context.Context, userID string) (int64, error) {
	files, _ := f.ListFiles(ctx, userID)
	return int64(len(files)), nil
}

func (f *fakeFileStore) DeleteFile(_ context.Context, fileID, userID string) (bool, error) {
	file, exists := f.files[fileID]
	if !exists || file.UserID != userID {
		return false, nil
	}
	delete(f.files, fileID)
	return true, nil
}

func (f *fakeFileStore) UpdateFileScanStatus(_ context.Context, fileID, status string, scannedAt time.Time) error {
	if file, exists := f.files[fileID]; exists {
		file.ScanStatus = status
	}
	return nil
}

// fakeFolderStore mimics the FK cascade: deleting a folder drops its file
// rows from the linked file store.
type fakeFolderStore struct {
	folders map[string]*models.Folder
	order   []string
	files   *fakeFileStore
}

func newFakeFolderStore(files *fakeFileStore) *fakeFolderStore {
	return &fakeFolderStore{folders: make(map[string]*models.Folder), files: files}
}

func (f *fakeFolderStore) CreateFolder(_ context.Context, folder *models.Folder) error {
	folder.CreatedAt = time.Now()
	cp := *folder
	f.folders[folder.ID] = &cp
	f.order = append(f.order, folder.ID)
	return nil
}

func (f *fakeFolderStore) GetFolder(ctx context.Context, folderID, userID string) (*models.Folder, bool, error) {
	folder, exists := f.folders[folderID]
	if !exists || folder.UserID != userID {
		return nil, false, nil
	}
	cp := *folder
	cp.Files = f.folderFiles(folderID)
	return &cp, true, nil
}

func (f *fakeFolderStore) ListFolders(_ context.Context, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for i := len(f.order) - 1; i >= 0; i-- {
		if folder, exists := f.folders[f.order[i]]; exists && folder.UserID == userID {
			cp := *folder
			cp.Files = f.folderFiles(folder.ID)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeFolderStore) CountFolders(ctx context.Context, userID string) (int64, error) {
	folders, _ := f.ListFolders(ctx, userID)
	return int64(len(folders)), nil
}

func (f *fakeFolderStore) DeleteFolder(_ context.Context, folderID, userID string) (bool, error) {
	folder, exists := f.folders[folderID]
	if !exists || folder.UserID != userID {
		return false, nil
	}
	for _, file := range f.folderFiles(folderID) {
		delete(f.files.files, file.ID)
	}
	delete(f.folders, folderID)
	return true, nil
}

func (f *fakeFolderStore) folderFiles(folderID string) []models.File {
	var out []models.File
	if f.files == nil {
		return out
	}
	for i := len(f.files.order) - 1; i >= 0; i-- {
		file, exists := f.files.files[f.files.order[i]]
		if exists && file.FolderID != nil && *file.FolderID == folderID {
			out = append(out, *file)
		}
	}
	return out
}

// fakeBlobStore records every put and remove attempt. Removes are counted
// even when they fail, matching "one remote-delete attempt per file".
type fakeBlobStore struct {
	namespace string
	puts      []string
	removes   []string
	putErr    error
	removeErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{namespace: "uploads"}
}

func (f *fakeBlobStore) Put(_ context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, objectName)
	return "http://minio.local/files/" + objectName, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, objectName string) error {
	f.removes = append(f.removes, objectName)
	return f.removeErr
}

func (f *fakeBlobStore) ObjectName(fileID string) string {
	return f.namespace + "/" + fileID
}

func (f *fakeBlobStore) ObjectNameFromLocator(locator string) string {
	return blob.ObjectNameFromLocator(locator, f.namespace)
}
