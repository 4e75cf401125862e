package controller

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"catalog-console/service"
)

// AssetController serves stored images to the catalog generator and the storefront
type AssetController struct {
	proxy  service.AssetProxyServiceInterface
	logger *zap.Logger
}

// NewAssetController creates a new AssetController
func NewAssetController(proxy service.AssetProxyServiceInterface, logger *zap.Logger) *AssetController {
	return &AssetController{
		proxy:  proxy,
		logger: logger,
	}
}

// GetImageBase64 handles GET /getImageBase64?path=<object path>
func (c *AssetController) GetImageBase64(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Path parameter required"}, c.logger)
		return
	}

	encoded, err := c.proxy.GetImageBase64(r.Context(), path)
	if err != nil {
		if errors.Is(err, service.ErrObjectNotFound) {
			c.logger.Info("File not found", zap.String("path", path))
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"}, c.logger)
			return
		}
		c.logger.Error("Error getting image", zap.String("path", path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get image"}, c.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"base64": encoded}, c.logger)
}
