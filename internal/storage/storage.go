package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pdf-rag-platform/models"
)

// BlobStore fetches source PDF bytes by locator. Implementations cover
// local disk and the GridFS object store.
type BlobStore interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// LocalStore reads PDFs from a directory on local disk. Locators are
// resolved relative to the base directory and must not escape it.
type LocalStore struct {
	baseDir     string
	maxFileSize int64
}

func NewLocalStore(baseDir string, maxFileSize int64) *LocalStore {
	return &LocalStore{baseDir: baseDir, maxFileSize: maxFileSize}
}

func (ls *LocalStore) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if err := validateLocator(locator); err != nil {
		return nil, err
	}

	path := filepath.Join(ls.baseDir, filepath.Clean("/"+locator))

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF file: %w", err)
	}
	if ls.maxFileSize > 0 && stat.Size() > ls.maxFileSize {
		return nil, fmt.Errorf("pdf too large for in-memory processing: %d bytes", stat.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}
	return content, nil
}

// GridFSStore reads PDFs from a MongoDB GridFS bucket, keyed by the
// uploaded filename.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(db *mongo.Database, bucketName string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to open GridFS bucket %s: %w", bucketName, err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

// Store uploads a PDF under the given name, replacing nothing; GridFS
// keeps revisions and DownloadToStreamByName reads the newest.
func (gs *GridFSStore) Store(locator string, r io.Reader) error {
	if err := validateLocator(locator); err != nil {
		return err
	}
	if _, err := gs.bucket.UploadFromStream(locator, r); err != nil {
		return fmt.Errorf("failed to store %s in object storage: %w", locator, err)
	}
	return nil
}

func (gs *GridFSStore) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if err := validateLocator(locator); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := gs.bucket.DownloadToStreamByName(locator, &buf); err != nil {
		return nil, fmt.Errorf("failed to fetch %s from object storage: %w", locator, err)
	}
	return buf.Bytes(), nil
}

// Resolver picks the store matching a request's storage kind.
type Resolver struct {
	local  BlobStore
	remote BlobStore
}

func NewResolver(local, remote BlobStore) *Resolver {
	return &Resolver{local: local, remote: remote}
}

func (r *Resolver) For(storageKind string) (BlobStore, error) {
	switch storageKind {
	case models.StorageLocal, "":
		return r.local, nil
	case models.StorageRemote:
		if r.remote == nil {
			return nil, fmt.Errorf("remote storage is not configured")
		}
		return r.remote, nil
	default:
		return nil, fmt.Errorf("unknown storage kind: %s", storageKind)
	}
}

func validateLocator(locator string) error {
	if locator == "" {
		return fmt.Errorf("file path is required")
	}
	if len(locator) > 255 {
		return fmt.Errorf("file path too long (max 255 characters)")
	}

	// Check for dangerous characters
	dangerous := []string{"../", "..\\", "<", ">", "\"", "|", "?", "*", "\x00"}
	for _, char := range dangerous {
		if strings.Contains(locator, char) {
			return fmt.Errorf("file path contains invalid or dangerous characters")
		}
	}

	if !strings.HasSuffix(strings.ToLower(locator), ".pdf") {
		return fmt.Errorf("only PDF files (.pdf extension) are allowed")
	}
	return nil
}
