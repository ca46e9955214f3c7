// Package blob wraps the MinIO client behind the small surface the upload
// pipeline needs: namespaced puts returning a locator URL, deletes, and the
// locator-to-object-name derivation used on the delete path.
package blob

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cloudlocker/file-vault/internal/configuration"
)

// callTimeout bounds every remote call; a timed-out call surfaces as a
// storage error to the caller.
const callTimeout = 60 * time.Second

type Client struct {
	mc        *minio.Client
	bucket    string
	namespace string
}

// New connects to MinIO and creates the bucket if it doesn't exist.
func New(cfg configuration.MinIOConfig, namespace string) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	exists, err := mc.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("Created bucket: %s", cfg.BucketName)
	}

	log.Println("Connected to MinIO successfully")
	return &Client{mc: mc, bucket: cfg.BucketName, namespace: namespace}, nil
}

// ObjectName builds the remote key for a new upload. Objects are stored
// without an extension so ObjectNameFromLocator is its exact inverse.
func (c *Client) ObjectName(fileID string) string {
	return c.namespace + "/" + fileID
}

// Put streams the object and returns the locator URL that identifies it.
func (c *Client) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.mc.PutObject(ctx, c.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", c.mc.EndpointURL().String(), c.bucket, objectName), nil
}

// Remove deletes the object. Callers on the delete path treat failures as
// non-fatal.
func (c *Client) Remove(ctx context.Context, objectName string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	return c.mc.RemoveObject(ctx, c.bucket, objectName, minio.RemoveObjectOptions{})
}

// Fetch downloads the object to a local path (used by the virus scanner).
func (c *Client) Fetch(ctx context.Context, objectName, localPath string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	return c.mc.FGetObject(ctx, c.bucket, objectName, localPath, minio.GetObjectOptions{})
}

// ObjectNameFromLocator derives the remote object name from a stored locator:
// last path segment, extension stripped, prefixed with the upload namespace.
// This must mirror the convention used at upload time or deletes silently
// target a nonexistent object. Current uploads store extension-less names, so
// the strip is a no-op for them and only affects legacy locators; a provider
// changing its URL shape would still break the derivation.
func (c *Client) ObjectNameFromLocator(locator string) string {
	return ObjectNameFromLocator(locator, c.namespace)
}

func ObjectNameFromLocator(locator, namespace string) string {
	segment := locator
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		segment = u.Path
	}
	segment = path.Base(segment)
	stem := strings.TrimSuffix(segment, path.Ext(segment))
	return namespace + "/" + stem
}
