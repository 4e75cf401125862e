package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"catalog-console/models"
	"catalog-console/pdfs"
	"catalog-console/repository"
	"catalog-console/utils"
)

// Page geometry and block sizes, in millimetres
const (
	marginTop    = 20.0
	marginBottom = 20.0
	marginLeft   = 20.0

	categoryHeaderMin     = 40.0
	categoryHeadingHeight = 15.0
	categoryDescHeight    = 15.0
	categoryDescMaxLen    = 100
	categoryMargin        = 15.0

	productMinSpace    = 50.0
	productTitleHeight = 10.0
	productImageSize   = 30.0
	productImageMargin = 10.0
	productRowMin      = 35.0
	productDescLines   = 2
	productLineHeight  = 4.06

	badgeWidth  = 30.0
	badgeHeight = 8.0

	pagePlaceholderHeight = 100.0
)

// ErrCatalogNotFound is returned when the requested catalog does not exist
var ErrCatalogNotFound = errors.New("catalog not found")

const (
	labelNoImage     = "No Image"
	labelImageFailed = "Image Failed"
	labelBestSeller  = "BEST SELLER"
)

// generationStage tracks how far a document has progressed
type generationStage int

const (
	stageNotStarted generationStage = iota
	stageRenderingCover
	stageRenderingBackPage
	stageRenderingBody
	stageFinalizing
	stageSaved
)

func (s generationStage) String() string {
	switch s {
	case stageNotStarted:
		return "NotStarted"
	case stageRenderingCover:
		return "RenderingCover"
	case stageRenderingBackPage:
		return "RenderingBackPage"
	case stageRenderingBody:
		return "RenderingBody"
	case stageFinalizing:
		return "Finalizing"
	case stageSaved:
		return "Saved"
	}
	return fmt.Sprintf("generationStage(%d)", int(s))
}

// CatalogServiceInterface defines catalog document generation
type CatalogServiceInterface interface {
	LoadSnapshot(ctx context.Context, catalogID string) (*models.CatalogSnapshot, error)
	Generate(ctx context.Context, snapshot models.CatalogSnapshot, out io.Writer) (*models.GenerationResult, error)
}

// CatalogService lays out PDF catalogs. It keeps no state between calls;
// every Generate call draws onto its own DocumentWriter.
type CatalogService struct {
	catalogs   repository.CatalogRepositoryInterface
	products   repository.ProductRepositoryInterface
	categories repository.CategoryRepositoryInterface
	resolver   AssetResolverInterface
	optimizer  ImageOptimizerInterface
	newWriter  func() pdfs.DocumentWriter
	now        func() time.Time
	logger     *zap.Logger
}

// CatalogServiceOption customizes a CatalogService
type CatalogServiceOption func(*CatalogService)

// WithWriterFactory replaces the default A4 fpdf writer
func WithWriterFactory(f func() pdfs.DocumentWriter) CatalogServiceOption {
	return func(s *CatalogService) { s.newWriter = f }
}

// WithClock replaces time.Now for the cover page date
func WithClock(now func() time.Time) CatalogServiceOption {
	return func(s *CatalogService) { s.now = now }
}

// NewCatalogService creates a new CatalogService. The repositories are only needed by LoadSnapshot.
func NewCatalogService(
	catalogs repository.CatalogRepositoryInterface,
	products repository.ProductRepositoryInterface,
	categories repository.CategoryRepositoryInterface,
	resolver AssetResolverInterface,
	optimizer ImageOptimizerInterface,
	logger *zap.Logger,
	opts ...CatalogServiceOption,
) *CatalogService {
	s := &CatalogService{
		catalogs:   catalogs,
		products:   products,
		categories: categories,
		resolver:   resolver,
		optimizer:  optimizer,
		newWriter:  func() pdfs.DocumentWriter { return pdfs.NewFpdfWriter(pdfs.A4Size) },
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure CatalogService implements CatalogServiceInterface
var _ CatalogServiceInterface = (*CatalogService)(nil)

// LoadSnapshot reads a catalog together with all products and categories
func (s *CatalogService) LoadSnapshot(ctx context.Context, catalogID string) (*models.CatalogSnapshot, error) {
	if s.catalogs == nil || s.products == nil || s.categories == nil {
		return nil, errors.New("catalog repositories not configured")
	}

	catalog, err := s.catalogs.GetByID(ctx, catalogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to load catalog %s: %w", catalogID, err)
	}
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return &models.CatalogSnapshot{
		Catalog:    *catalog,
		Products:   products,
		Categories: categories,
	}, nil
}

// Generate renders the snapshot into a PDF written to out.
// Image failures fall back to placeholders; any writer error aborts the whole document
// before anything is written to out.
func (s *CatalogService) Generate(ctx context.Context, snapshot models.CatalogSnapshot, out io.Writer) (*models.GenerationResult, error) {
	g := &generation{
		ctx:       ctx,
		writer:    s.newWriter(),
		resolver:  s.resolver,
		optimizer: s.optimizer,
		logger:    s.logger.With(zap.String("catalog", snapshot.Catalog.Name)),
		plan:      BuildCatalogPlan(snapshot),
	}
	size := g.writer.PaperSize()
	g.pageWidth, g.pageHeight = size.Width, size.Height

	g.logger.Info("🚀 Starting catalog generation",
		zap.Int("categories", len(g.plan.Categories)),
		zap.Int("products", g.plan.ProductCount()))

	g.advance(stageRenderingCover)
	g.renderCover(s.now())
	if err := g.writer.Err(); err != nil {
		return nil, fmt.Errorf("failed to render cover page: %w", err)
	}

	g.advance(stageRenderingBackPage)
	g.renderBackPage()
	if err := g.writer.Err(); err != nil {
		return nil, fmt.Errorf("failed to render about page: %w", err)
	}

	g.advance(stageRenderingBody)
	for _, category := range g.plan.Categories {
		g.renderCategory(category)
		if err := g.writer.Err(); err != nil {
			return nil, fmt.Errorf("failed to render category %q: %w", category.Category.Name, err)
		}
	}

	g.advance(stageFinalizing)
	pageCount := g.stampPageNumbers()
	if err := g.writer.Err(); err != nil {
		return nil, fmt.Errorf("failed to stamp page numbers: %w", err)
	}

	if _, err := g.writer.WriteTo(out); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	g.advance(stageSaved)

	result := &models.GenerationResult{
		FileName:   utils.CatalogFileName(snapshot.Catalog.Name, snapshot.Catalog.Version),
		PageCount:  pageCount,
		Categories: len(g.plan.Categories),
		Products:   g.plan.ProductCount(),
	}
	g.logger.Info("✅ Catalog generated", zap.String("file", result.FileName), zap.Int("pages", pageCount))
	return result, nil
}

// generation holds the cursor and page state of one document
type generation struct {
	ctx       context.Context
	writer    pdfs.DocumentWriter
	resolver  AssetResolverInterface
	optimizer ImageOptimizerInterface
	logger    *zap.Logger
	plan      CatalogPlan

	stage      generationStage
	cursorY    float64
	pageWidth  float64
	pageHeight float64
}

func (g *generation) advance(next generationStage) {
	g.logger.Debug("Generation stage", zap.Stringer("from", g.stage), zap.Stringer("to", next))
	g.stage = next
}

func (g *generation) newPage() {
	g.writer.AddPage()
	g.cursorY = marginTop
}

// closePage moves the cursor past the bottom margin so the next block opens a new page.
// No page is added when nothing follows, so a catalog without products ends at 2 pages.
func (g *generation) closePage() {
	g.cursorY = g.pageHeight
}

// ensureSpace breaks the page when a block of the given height would run into the bottom margin
func (g *generation) ensureSpace(height float64) {
	if g.cursorY+height > g.pageHeight-marginBottom {
		g.newPage()
	}
}

func (g *generation) atTopOfPage() bool {
	return g.cursorY <= marginTop
}

// loadImage resolves ref and prepares it for embedding. ok is false when the image is unavailable.
func (g *generation) loadImage(ref string, preset ImagePreset) (pdfs.Image, bool) {
	payload, err := g.resolver.FetchBase64(g.ctx, ref)
	if err != nil {
		g.logger.Warn("⚠️ Failed to load image", zap.String("ref", ref), zap.Error(err))
		return pdfs.Image{}, false
	}

	data, err := DecodePayload(payload)
	if err != nil {
		g.logger.Warn("⚠️ Failed to decode image", zap.String("ref", ref), zap.Error(err))
		return pdfs.Image{}, false
	}

	img, err := g.optimizer.Optimize(data, ImageFormatFromPayload(payload), preset)
	if err != nil {
		g.logger.Warn("⚠️ Failed to prepare image", zap.String("ref", ref), zap.Error(err))
		return pdfs.Image{}, false
	}
	return img, true
}

// drawImage places ref in the box and reports whether it was drawn
func (g *generation) drawImage(ref string, preset ImagePreset, x, y, w, h float64) bool {
	img, ok := g.loadImage(ref, preset)
	if !ok {
		return false
	}
	if err := g.writer.Image(string(preset)+":"+ref, img, x, y, w, h); err != nil {
		g.logger.Warn("⚠️ Failed to embed image", zap.String("ref", ref), zap.Error(err))
		return false
	}
	return true
}

// drawPlaceholder draws a light box with diagonals and a centred label
func (g *generation) drawPlaceholder(x, y, w, h float64, label string) {
	g.writer.SetDrawColor(200, 200, 200)
	g.writer.SetFillColor(248, 248, 248)
	g.writer.Rect(x, y, w, h, pdfs.RectFillStroke)

	g.writer.SetDrawColor(220, 220, 220)
	g.writer.Line(x, y, x+w, y+h)
	g.writer.Line(x+w, y, x, y+h)

	g.writer.SetFont(pdfs.StyleNormal, 8)
	g.writer.SetTextColor(120, 120, 120)
	g.writer.Text(x+w/2, y+h/2, label, pdfs.AlignCenter)
	g.writer.SetTextColor(0, 0, 0)
	g.writer.SetDrawColor(0, 0, 0)
}

func (g *generation) renderCover(now time.Time) {
	catalog := g.plan.Catalog
	g.newPage()

	attempted := catalog.CoverPage != ""
	if attempted && g.drawImage(catalog.CoverPage, PresetPage, 0, 0, g.pageWidth, g.pageHeight) {
		g.newPage()
		return
	}

	center := g.pageWidth / 2
	g.writer.SetFont(pdfs.StyleBold, 24)
	g.writer.Text(center, 50, catalog.Name, pdfs.AlignCenter)

	g.writer.SetFont(pdfs.StyleNormal, 16)
	g.writer.Text(center, 70, "Version: "+catalog.Version, pdfs.AlignCenter)

	g.writer.SetFont(pdfs.StyleNormal, 12)
	g.writer.Text(center, 90, "Generated: "+now.Format("1/2/2006"), pdfs.AlignCenter)

	if attempted {
		g.drawPlaceholder(marginLeft, 110, g.pageWidth-2*marginLeft, pagePlaceholderHeight, "Cover Image Not Available")
	}
	g.newPage()
}

func (g *generation) renderBackPage() {
	catalog := g.plan.Catalog

	attempted := catalog.BackPage != ""
	if attempted && g.drawImage(catalog.BackPage, PresetPage, 0, 0, g.pageWidth, g.pageHeight) {
		g.closePage()
		return
	}

	g.writer.SetFont(pdfs.StyleBold, 18)
	g.writer.Text(marginLeft, g.cursorY, "About Us", pdfs.AlignLeft)
	g.cursorY += 20

	g.writer.SetFont(pdfs.StyleNormal, 12)
	g.writer.Text(marginLeft, g.cursorY, "Welcome to our product catalog.", pdfs.AlignLeft)
	g.cursorY += 10
	g.writer.Text(marginLeft, g.cursorY, "We provide quality products and excellent service.", pdfs.AlignLeft)
	g.cursorY += 20

	if attempted {
		g.drawPlaceholder(marginLeft, g.cursorY, g.pageWidth-2*marginLeft, pagePlaceholderHeight, "About Us Image Not Available")
	}
	g.closePage()
}

func (g *generation) renderCategory(planned PlannedCategory) {
	category := planned.Category
	g.logger.Debug("📂 Rendering category", zap.Int("number", planned.Number), zap.String("name", category.Name))

	if planned.StartNewPage && !g.atTopOfPage() {
		g.newPage()
	}

	header := categoryHeadingHeight
	if category.Description != "" {
		header += categoryDescHeight
	}
	g.ensureSpace(max(header, categoryHeaderMin))

	g.writer.SetFont(pdfs.StyleBold, 16)
	g.writer.Text(marginLeft, g.cursorY, fmt.Sprintf("%d. %s", planned.Number, category.Name), pdfs.AlignLeft)
	g.cursorY += categoryHeadingHeight

	if category.Description != "" {
		g.writer.SetFont(pdfs.StyleNormal, 10)
		g.writer.Text(marginLeft, g.cursorY, utils.Truncate(category.Description, categoryDescMaxLen), pdfs.AlignLeft)
		g.cursorY += categoryDescHeight
	}

	for _, product := range planned.Products {
		g.renderProduct(planned.Number, product)
	}

	g.cursorY += categoryMargin
}

func (g *generation) renderProduct(categoryNumber int, planned PlannedProduct) {
	product := planned.Product
	g.ensureSpace(productMinSpace)

	g.writer.SetFont(pdfs.StyleBold, 12)
	g.writer.Text(marginLeft, g.cursorY, fmt.Sprintf("%d.%d %s", categoryNumber, planned.Number, product.Title), pdfs.AlignLeft)
	g.cursorY += productTitleHeight

	top := g.cursorY
	if product.Image == "" {
		g.drawPlaceholder(marginLeft, top, productImageSize, productImageSize, labelNoImage)
	} else if !g.drawImage(product.Image, PresetThumb, marginLeft, top, productImageSize, productImageSize) {
		g.drawPlaceholder(marginLeft, top, productImageSize, productImageSize, labelImageFailed)
	}

	textX := marginLeft + productImageSize + productImageMargin
	g.writer.SetFont(pdfs.StyleNormal, 10)
	if product.Description != "" {
		lines := g.writer.SplitText(product.Description, g.pageWidth-textX-marginLeft)
		if len(lines) > productDescLines {
			lines = lines[:productDescLines]
		}
		for i, line := range lines {
			g.writer.Text(textX, top+5+float64(i)*productLineHeight, line, pdfs.AlignLeft)
		}
	}

	if product.Price != nil && *product.Price != 0 {
		g.writer.SetFont(pdfs.StyleBold, 10)
		g.writer.Text(textX, top+20, utils.FormatPrice(*product.Price), pdfs.AlignLeft)
	}

	if product.IsBestSeller {
		g.writer.SetFillColor(255, 215, 0)
		g.writer.Rect(g.pageWidth-50, top, badgeWidth, badgeHeight, pdfs.RectFill)
		g.writer.SetFont(pdfs.StyleNormal, 7)
		g.writer.SetTextColor(0, 0, 0)
		g.writer.Text(g.pageWidth-47, top+5, labelBestSeller, pdfs.AlignLeft)
	}

	g.cursorY += max(productImageSize+productImageMargin, productRowMin)
}

// stampPageNumbers writes "Page X of N" on every page and returns N
func (g *generation) stampPageNumbers() int {
	pageCount := g.writer.PageCount()
	for i := 1; i <= pageCount; i++ {
		g.writer.SetPage(i)
		g.writer.SetFont(pdfs.StyleNormal, 9)
		g.writer.SetTextColor(0, 0, 0)
		g.writer.Text(g.pageWidth-30, g.pageHeight-10, fmt.Sprintf("Page %d of %d", i, pageCount), pdfs.AlignRight)
	}
	return pageCount
}
