package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	clamd "github.com/dutchcoders/go-clamd"

	"github.com/cloudlocker/file-vault/internal/models"
	"github.com/cloudlocker/file-vault/internal/storage"
)

// BlobFetcher is the slice of the blob client the scanner needs.
type BlobFetcher interface {
	Fetch(ctx context.Context, objectName, localPath string) error
	Remove(ctx context.Context, objectName string) error
}

// Scanner runs ClamAV over freshly uploaded blobs. Infected objects are
// removed from the store and the file row keeps the verdict. A nil scanner is
// valid and scans nothing, so ClamAV stays optional.
type Scanner struct {
	address string
	blobs   BlobFetcher
	files   storage.FileStore
}

func NewScanner(address string, blobs BlobFetcher, files storage.FileStore) *Scanner {
	return &Scanner{address: address, blobs: blobs, files: files}
}

// ScanAsync scans in the background, detached from the upload request.
func (s *Scanner) ScanAsync(fileID, objectName string) {
	if s == nil {
		return
	}
	go s.Scan(context.Background(), fileID, objectName)
}

func (s *Scanner) Scan(ctx context.Context, fileID, objectName string) {
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("scan-%s", fileID))

	if err := s.blobs.Fetch(ctx, objectName, tempPath); err != nil {
		log.Printf("Failed to download %s for scanning: %v", objectName, err)
		return
	}
	defer os.Remove(tempPath)

	c := clamd.NewClamd(s.address)
	response, err := c.ScanFile(tempPath)
	if err != nil {
		log.Printf("Scan failed for file %s: %v", fileID, err)
		return
	}

	status := models.ScanStatusClean
	for res := range response {
		if res.Status == clamd.RES_FOUND {
			log.Printf("Virus detected in file %s: %s", fileID, res.Description)
			status = models.ScanStatusInfected

			if err := s.blobs.Remove(ctx, objectName); err != nil {
				log.Printf("Failed to delete infected object %s: %v", objectName, err)
				return
			}
		}
	}

	if err := s.files.UpdateFileScanStatus(ctx, fileID, status, time.Now()); err != nil {
		log.Printf("Failed to update scan status for file %s: %v", fileID, err)
		return
	}
	log.Printf("Scan finished for file %s: %s", fileID, status)
}
