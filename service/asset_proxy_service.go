package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrStorageNotConfigured is returned when no object store backs the asset endpoint
var ErrStorageNotConfigured = errors.New("object storage not configured")

// AssetProxyServiceInterface defines the contract of the asset retrieval endpoint
type AssetProxyServiceInterface interface {
	GetImageBase64(ctx context.Context, path string) (string, error)
}

// AssetProxyService serves stored images as base64 data URLs.
// Concurrent requests for the same path share a single download.
type AssetProxyService struct {
	store  ObjectStoreInterface
	cache  AssetCacheInterface
	group  singleflight.Group
	logger *zap.Logger
}

// NewAssetProxyService creates a new AssetProxyService. store and cache may be nil.
func NewAssetProxyService(store ObjectStoreInterface, cache AssetCacheInterface, logger *zap.Logger) *AssetProxyService {
	return &AssetProxyService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Ensure AssetProxyService implements AssetProxyServiceInterface
var _ AssetProxyServiceInterface = (*AssetProxyService)(nil)

// MimeTypeForPath guesses the image MIME type from the object path, defaulting to JPEG
func MimeTypeForPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, ".png"):
		return "image/png"
	case strings.Contains(lower, ".gif"):
		return "image/gif"
	case strings.Contains(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// GetImageBase64 returns the object at path as a data URL. Missing objects yield ErrObjectNotFound.
func (s *AssetProxyService) GetImageBase64(ctx context.Context, path string) (string, error) {
	if s.store == nil {
		return "", ErrStorageNotConfigured
	}

	if s.cache != nil {
		encoded, ok, err := s.cache.Get(ctx, path)
		if err != nil {
			s.logger.Warn("⚠️ Asset cache read failed", zap.String("path", path), zap.Error(err))
		} else if ok {
			return encoded, nil
		}
	}

	v, err, shared := s.group.Do(path, func() (any, error) {
		s.logger.Info("Getting image", zap.String("path", path))

		data, err := s.store.Download(ctx, path)
		if err != nil {
			return "", err
		}

		encoded := fmt.Sprintf("data:%s;base64,%s", MimeTypeForPath(path), base64.StdEncoding.EncodeToString(data))

		if s.cache != nil {
			if err := s.cache.Set(ctx, path, encoded); err != nil {
				s.logger.Warn("⚠️ Asset cache write failed", zap.String("path", path), zap.Error(err))
			}
		}

		s.logger.Info("✓ Successfully processed image", zap.String("path", path), zap.Int("bytes", len(data)))
		return encoded, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.logger.Debug("Shared in-flight download", zap.String("path", path))
	}
	return v.(string), nil
}
