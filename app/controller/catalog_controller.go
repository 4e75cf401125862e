package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"catalog-console/models"
	"catalog-console/service"
)

// CatalogController handles catalog generation, preview and order maintenance
type CatalogController struct {
	*CollectionController[models.PDFCatalog]
	catalogService service.CatalogServiceInterface
	orderService   service.CatalogOrderServiceInterface
	previewService service.PreviewServiceInterface
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(
	collection *CollectionController[models.PDFCatalog],
	catalogService service.CatalogServiceInterface,
	orderService service.CatalogOrderServiceInterface,
	previewService service.PreviewServiceInterface,
) *CatalogController {
	return &CatalogController{
		CollectionController: collection,
		catalogService:       catalogService,
		orderService:         orderService,
		previewService:       previewService,
	}
}

// DownloadPDF handles GET /admin/catalogs/{id}/pdf
func (c *CatalogController) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c.logger.Info("📥 DownloadPDF: Received request", zap.String("catalog", id))

	snapshot, err := c.catalogService.LoadSnapshot(r.Context(), id)
	if err != nil {
		c.failGeneration(w, err)
		return
	}
	c.writePDF(w, r, *snapshot)
}

// GenerateFromSnapshot handles POST /admin/catalogs/{id}/generate with a CatalogSnapshot body,
// rendering unsaved builder state without reading the stored catalog
func (c *CatalogController) GenerateFromSnapshot(w http.ResponseWriter, r *http.Request) {
	var snapshot models.CatalogSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		c.logger.Warn("❌ GenerateFromSnapshot: Failed to decode request body", zap.Error(err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if snapshot.Catalog.ID == "" {
		snapshot.Catalog.ID = r.PathValue("id")
	}
	c.writePDF(w, r, snapshot)
}

// writePDF renders the whole document before sending anything, so failures never reach the client half-written
func (c *CatalogController) writePDF(w http.ResponseWriter, r *http.Request, snapshot models.CatalogSnapshot) {
	var buf bytes.Buffer
	result, err := c.catalogService.Generate(r.Context(), snapshot, &buf)
	if err != nil {
		c.failGeneration(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.Header().Set("X-Catalog-Pages", fmt.Sprintf("%d", result.PageCount))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		c.logger.Error("❌ Error writing PDF response", zap.Error(err))
		return
	}
	c.logger.Info("✅ Catalog sent", zap.String("file", result.FileName), zap.Int("pages", result.PageCount))
}

func (c *CatalogController) failGeneration(w http.ResponseWriter, err error) {
	if statusFor(err) == http.StatusNotFound {
		http.Error(w, "catalog not found", http.StatusNotFound)
		return
	}
	c.logger.Error("❌ Catalog generation failed", zap.Error(err))
	http.Error(w, "failed to generate catalog", http.StatusInternalServerError)
}

// Preview handles GET /admin/catalogs/{id}/preview?format=html|png
func (c *CatalogController) Preview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "html"
	}

	switch format {
	case "html":
		snapshot, err := c.catalogService.LoadSnapshot(r.Context(), id)
		if err != nil {
			c.failPreview(w, err)
			return
		}
		html, err := c.previewService.RenderHTML(*snapshot)
		if err != nil {
			c.failPreview(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html))

	case "png":
		pngData, err := c.previewService.RenderPNG(r.Context(), id)
		if err != nil {
			c.failPreview(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pngData)))
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.WriteHeader(http.StatusOK)
		w.Write(pngData)

	default:
		http.Error(w, "Invalid format. Valid formats: html, png", http.StatusBadRequest)
	}
}

func (c *CatalogController) failPreview(w http.ResponseWriter, err error) {
	if statusFor(err) == http.StatusNotFound {
		http.Error(w, "catalog not found", http.StatusNotFound)
		return
	}
	c.logger.Error("❌ Preview failed", zap.Error(err))
	http.Error(w, "failed to render preview", http.StatusInternalServerError)
}

// Sync handles POST /admin/catalogs/{id}/sync
func (c *CatalogController) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := c.orderService.SyncCatalogOrders(r.Context(), r.PathValue("id"))
	if err != nil {
		c.failOrders(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result, c.logger)
}

// UpdateCategoryOrder handles PATCH /admin/catalogs/{id}/categories/{categoryId}
func (c *CatalogController) UpdateCategoryOrder(w http.ResponseWriter, r *http.Request) {
	var update models.CategoryOrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	catalog, err := c.orderService.UpdateCategoryOrder(r.Context(), r.PathValue("id"), r.PathValue("categoryId"), update)
	if err != nil {
		c.failOrders(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog, c.logger)
}

// UpdateProductOrder handles PATCH /admin/catalogs/{id}/categories/{categoryId}/products/{productId}
func (c *CatalogController) UpdateProductOrder(w http.ResponseWriter, r *http.Request) {
	var update models.ProductOrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	catalog, err := c.orderService.UpdateProductOrder(r.Context(), r.PathValue("id"), r.PathValue("categoryId"), r.PathValue("productId"), update)
	if err != nil {
		c.failOrders(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog, c.logger)
}

func (c *CatalogController) failOrders(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.logger.Error("❌ Catalog order update failed", zap.Error(err))
		http.Error(w, "failed to update catalog", status)
		return
	}
	http.Error(w, err.Error(), status)
}
