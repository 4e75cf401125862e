package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"catalog-console/pdfs"
)

var (
	// ErrInvalidStorageRef is returned when a reference does not contain an object-store path
	ErrInvalidStorageRef = errors.New("could not extract storage path from reference")
	// ErrAssetUnavailable is returned when the asset endpoint does not deliver usable image data
	ErrAssetUnavailable = errors.New("asset unavailable")
)

// storagePathPattern matches the object path of a download URL: .../o/<escaped path>?alt=media&token=...
var storagePathPattern = regexp.MustCompile(`/o/(.+?)\?`)

// AssetResolverInterface turns stored-object references into base64 image payloads
type AssetResolverInterface interface {
	FetchBase64(ctx context.Context, ref string) (string, error)
}

// AssetResolver fetches images through the asset retrieval endpoint.
// Each call makes at most one request and never retries.
type AssetResolver struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewAssetResolver creates an AssetResolver. A zero timeout leaves the network stack defaults in place.
func NewAssetResolver(endpoint string, timeout time.Duration, logger *zap.Logger) *AssetResolver {
	return &AssetResolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Ensure AssetResolver implements AssetResolverInterface
var _ AssetResolverInterface = (*AssetResolver)(nil)

// ExtractStoragePath returns the decoded object path embedded in a download URL
func ExtractStoragePath(ref string) (string, error) {
	m := storagePathPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", ErrInvalidStorageRef
	}
	path, err := url.PathUnescape(m[1])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidStorageRef, err)
	}
	return path, nil
}

// FetchBase64 resolves ref to the base64 payload returned by the asset endpoint
func (r *AssetResolver) FetchBase64(ctx context.Context, ref string) (string, error) {
	storagePath, err := ExtractStoragePath(ref)
	if err != nil {
		return "", err
	}

	endpoint, err := url.Parse(r.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid asset endpoint %q: %w", r.endpoint, err)
	}
	query := endpoint.Query()
	query.Set("path", storagePath)
	endpoint.RawQuery = query.Encode()

	r.logger.Debug("🔄 Fetching image via asset endpoint", zap.String("path", storagePath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build asset request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: asset endpoint returned status %d", ErrAssetUnavailable, resp.StatusCode)
	}

	var body struct {
		Base64 string `json:"base64"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode asset response: %v", ErrAssetUnavailable, err)
	}
	if body.Base64 == "" {
		return "", fmt.Errorf("%w: asset response has no base64 field", ErrAssetUnavailable)
	}

	return body.Base64, nil
}

// ImageFormatFromPayload picks the embedding format from a data URL payload: PNG when it says so, JPEG otherwise
func ImageFormatFromPayload(payload string) pdfs.ImageFormat {
	if strings.Contains(payload, "data:image/png") {
		return pdfs.FormatPNG
	}
	return pdfs.FormatJPEG
}

// DecodePayload strips an optional data URL prefix and decodes the base64 bytes
func DecodePayload(payload string) ([]byte, error) {
	encoded := payload
	if strings.HasPrefix(encoded, "data:") {
		idx := strings.Index(encoded, ",")
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", ErrAssetUnavailable)
		}
		encoded = encoded[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrAssetUnavailable, err)
	}
	return data, nil
}
