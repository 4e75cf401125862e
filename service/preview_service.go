package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"catalog-console/models"
	"catalog-console/utils"
)

const previewTimeout = 30 * time.Second

//go:embed templates/catalog_preview.html
var previewFS embed.FS

var previewTemplate = template.Must(
	template.New("catalog_preview.html").Funcs(template.FuncMap{
		"truncate": utils.Truncate,
		"price":    utils.FormatPrice,
		"deref":    func(p *float64) float64 { return *p },
	}).ParseFS(previewFS, "templates/catalog_preview.html"),
)

// PreviewServiceInterface defines rendering of catalog previews
type PreviewServiceInterface interface {
	RenderHTML(snapshot models.CatalogSnapshot) (string, error)
	RenderPNG(ctx context.Context, catalogID string) ([]byte, error)
}

// PreviewService renders what a catalog will contain as HTML, and screenshots that page with Chrome
type PreviewService struct {
	baseURL    string
	chromePath string
	logger     *zap.Logger
}

// NewPreviewService creates a new PreviewService. baseURL is where this server can reach itself.
func NewPreviewService(baseURL, chromePath string, logger *zap.Logger) *PreviewService {
	return &PreviewService{
		baseURL:    baseURL,
		chromePath: chromePath,
		logger:     logger,
	}
}

// Ensure PreviewService implements PreviewServiceInterface
var _ PreviewServiceInterface = (*PreviewService)(nil)

// detectChromePath returns the configured Chrome/Chromium path if it exists,
// otherwise the first common installation path found
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RenderHTML lists the numbered categories and products the catalog document will contain
func (s *PreviewService) RenderHTML(snapshot models.CatalogSnapshot) (string, error) {
	plan := BuildCatalogPlan(snapshot)

	data := struct {
		Name          string
		Version       string
		CategoryCount int
		ProductCount  int
		Categories    []PlannedCategory
	}{
		Name:          plan.Catalog.Name,
		Version:       plan.Catalog.Version,
		CategoryCount: len(plan.Categories),
		ProductCount:  plan.ProductCount(),
		Categories:    plan.Categories,
	}

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// RenderPNG takes a full-page screenshot of the HTML preview served by this application
func (s *PreviewService) RenderPNG(ctx context.Context, catalogID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, previewTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		s.logger.Debug("🌐 Using Chrome", zap.String("path", chromePath))
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		s.logger.Warn("⚠️ Chrome/Chromium not found, letting chromedp auto-detect")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	renderURL := fmt.Sprintf("%s/admin/catalogs/%s/preview?format=html", s.baseURL, url.PathEscape(catalogID))
	s.logger.Info("📸 Rendering catalog preview", zap.String("url", renderURL))

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return page.Enable().Do(ctx)
		}),
		chromedp.EmulateViewport(794, 1123),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// quality 100 captures PNG
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture preview: %w", err)
	}

	s.logger.Info("✅ Preview captured", zap.Int("bytes", len(buf)))
	return buf, nil
}
