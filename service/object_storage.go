package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"
)

// ErrObjectNotFound is returned when the requested object does not exist
var ErrObjectNotFound = errors.New("object not found")

// ObjectStoreInterface defines the contract for reading stored objects
type ObjectStoreInterface interface {
	Download(ctx context.Context, path string) ([]byte, error)
}

// CloudStorage reads objects from a Cloud Storage bucket
type CloudStorage struct {
	client *storage.Service
	bucket string
}

// NewCloudStorage creates a CloudStorage for bucket.
// credentialsPath should be the path to a Service Account JSON file; empty uses application default credentials.
func NewCloudStorage(ctx context.Context, bucket, credentialsPath string) (*CloudStorage, error) {
	opts := []option.ClientOption{option.WithScopes(storage.DevstorageReadOnlyScope)}
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage service: %w", err)
	}

	return &CloudStorage{
		client: client,
		bucket: bucket,
	}, nil
}

// Ensure CloudStorage implements ObjectStoreInterface
var _ ObjectStoreInterface = (*CloudStorage)(nil)

// Download returns the object's bytes
func (s *CloudStorage) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.client.Objects.Get(s.bucket, path).Context(ctx).Download()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to download object %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}
	return data, nil
}

// FileObjectStore reads objects from a local directory, for development and the CLI
type FileObjectStore struct {
	root string
}

// NewFileObjectStore creates a FileObjectStore rooted at dir
func NewFileObjectStore(dir string) *FileObjectStore {
	return &FileObjectStore{root: dir}
}

// Ensure FileObjectStore implements ObjectStoreInterface
var _ ObjectStoreInterface = (*FileObjectStore)(nil)

// Download reads the object at path below the root directory
func (s *FileObjectStore) Download(ctx context.Context, path string) ([]byte, error) {
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: invalid object path %q", ErrObjectNotFound, path)
	}

	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}
	return data, nil
}
