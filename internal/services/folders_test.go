package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type folderFixture struct {
	svc     *FolderService
	fileSvc *FileService
	files   *fakeFileStore
	folders *fakeFolderStore
	blobs   *fakeBlobStore
}

func newFolderFixture() *folderFixture {
	files := newFakeFileStore()
	folders := newFakeFolderStore(files)
	blobs := newFakeBlobStore()
	return &folderFixture{
		svc:     NewFolderService(folders, blobs, nil),
		fileSvc: NewFileService(files, folders, blobs, testUploadPolicy(), nil, nil),
		files:   files,
		folders: folders,
		blobs:   blobs,
	}
}

func TestCreateFolder(t *testing.T) {
	fx := newFolderFixture()
	ctx := context.Background()

	folder, err := fx.svc.CreateFolder(ctx, "user-1", "Taxes")
	require.NoError(t, err)
	assert.Equal(t, "Taxes", folder.Name)
	assert.Equal(t, "user-1", folder.UserID)
	assert.NotEmpty(t, folder.ID)
}

func TestCreateFolderEmptyName(t *testing.T) {
	fx := newFolderFixture()

	for _, name := range []string{"", "   "} {
		_, err := fx.svc.CreateFolder(context.Background(), "user-1", name)
		ve, ok := AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, ve.Messages, "Folder name is required")
	}
	assert.Empty(t, fx.folders.folders)
}

func TestCreateFolderAllowsDuplicateNames(t *testing.T) {
	fx := newFolderFixture()
	ctx := context.Background()

	first, err := fx.svc.CreateFolder(ctx, "user-1", "Taxes")
	require.NoError(t, err)
	second, err := fx.svc.CreateFolder(ctx, "user-1", "Taxes")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	folders, err := fx.svc.ListFolders(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, folders, 2)
}

func TestGetFolderOwnerScoped(t *testing.T) {
	fx := newFolderFixture()
	ctx := context.Background()

	folder, err := fx.svc.CreateFolder(ctx, "user-b", "Private")
	require.NoError(t, err)

	_, err = fx.svc.GetFolder(ctx, "user-a", folder.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := fx.svc.GetFolder(ctx, "user-b", folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, got.ID)
}

func TestDeleteFolderCascades(t *testing.T) {
	fx := newFolderFixture()
	ctx := context.Background()

	folder, err := fx.svc.CreateFolder(ctx, "user-1", "Photos")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		fh := makeFileHeader(t, "p.png", "image/png", []byte("png"))
		_, err := fx.fileSvc.Upload(ctx, "user-1", fh, &folder.ID)
		require.NoError(t, err)
	}
	// An unfiled file must survive the cascade.
	fh := makeFileHeader(t, "keep.txt", "text/plain", []byte("keep"))
	kept, err := fx.fileSvc.Upload(ctx, "user-1", fh, nil)
	require.NoError(t, err)

	require.NoError(t, fx.svc.DeleteFolder(ctx, "user-1", folder.ID))

	// Exactly N remote-delete attempts, folder row gone, N file rows gone.
	assert.Len(t, fx.blobs.removes, 3)
	assert.Empty(t, fx.folders.folders)
	files, err := fx.fileSvc.ListFiles(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, kept.ID, files[0].ID)
}

func TestDeleteFolderRemoteFailuresAreNonFatal(t *testing.T) {
	fx := newFolderFixture()
	ctx := context.Background()

	folder, err := fx.svc.CreateFolder(ctx, "user-1", "Photos")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		fh := makeFileHeader(t, "p.png", "image/png", []byte("png"))
		_, err := fx.fileSvc.Upload(ctx, "user-1", fh, &folder.ID)
		require.NoError(t, err)
	}

	fx.blobs.removeErr = errors.New("object store down")
	require.NoError(t, fx.svc.DeleteFolder(ctx, "user-1", folder.ID))

	// Every delete was still attempted and the rows are gone.
	assert.Len(t, fx.blobs.removes, 2)
	assert.Empty(t, fx.folders.folders)
	assert.Empty(t, fx.files.files)
}

func TestDeleteFolderOwnerScoped(t *testing.T) {
	fx := newFolderFixture()
	ctx := context.Background()

	folder, err := fx.svc.CreateFolder(ctx, "user-b", "Private")
	require.NoError(t, err)

	assert.ErrorIs(t, fx.svc.DeleteFolder(ctx, "user-a", folder.ID), ErrNotFound)
	assert.Len(t, fx.folders.folders, 1)
}

func TestDeleteFolderNotFound(t *testing.T) {
	fx := newFolderFixture()
	assert.ErrorIs(t, fx.svc.DeleteFolder(context.Background(), "user-1", "missing"), ErrNotFound)
}

// Create "Taxes", upload "w2.pdf" into it, delete the folder: folder row
// gone, file row gone, one remote-delete attempt for the blob.
func TestDeleteFolderWithUploadedFile(t *testing.T) {
	fx := newFolderFixture()
	ctx := context.Background()

	folder, err := fx.svc.CreateFolder(ctx, "user-1", "Taxes")
	require.NoError(t, err)

	fh := makeFileHeader(t, "w2.pdf", "application/pdf", []byte("pdf"))
	file, err := fx.fileSvc.Upload(ctx, "user-1", fh, &folder.ID)
	require.NoError(t, err)

	require.NoError(t, fx.svc.DeleteFolder(ctx, "user-1", folder.ID))

	assert.Empty(t, fx.folders.folders)
	assert.Empty(t, fx.files.files)
	require.Len(t, fx.blobs.removes, 1)
	assert.Equal(t, fx.blobs.ObjectNameFromLocator(file.Locator), fx.blobs.removes[0])
}
