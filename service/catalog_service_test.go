package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"catalog-console/models"
	"catalog-console/pdfs"
)

var fixedNow = time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)

// newTestCatalogService returns a service drawing onto recording writers, which are appended to *writers
func newTestCatalogService(resolver AssetResolverInterface, writers *[]*recordingWriter) *CatalogService {
	return NewCatalogService(nil, nil, nil, resolver, passthroughOptimizer{}, zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
		WithWriterFactory(func() pdfs.DocumentWriter {
			w := &recordingWriter{}
			*writers = append(*writers, w)
			return w
		}),
	)
}

func generate(t *testing.T, snapshot models.CatalogSnapshot, resolver AssetResolverInterface) (*recordingWriter, *models.GenerationResult) {
	t.Helper()
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	var writers []*recordingWriter
	svc := newTestCatalogService(resolver, &writers)

	var out bytes.Buffer
	result, err := svc.Generate(context.Background(), snapshot, &out)
	require.NoError(t, err)
	require.Len(t, writers, 1)
	assert.Equal(t, "%PDF-recorded", out.String())
	return writers[0], result
}

func springMenu() models.CatalogSnapshot {
	return models.CatalogSnapshot{
		Catalog: models.PDFCatalog{
			Name:    "Spring Menu",
			Version: "2.1",
			Categories: []models.CategoryOrder{{
				CategoryID:   "c1",
				Order:        1,
				StartNewPage: true,
				Products: []models.ProductOrder{
					{ProductID: "p1", Order: 1, Included: true},
					{ProductID: "p2", Order: 2, Included: false},
				},
			}},
		},
		Categories: []models.Category{category("c1", "Drinks")},
		Products:   []models.Product{product("p1", "Cola", "c1"), product("p2", "Lemonade", "c1")},
	}
}

func TestGenerate_SpringMenu(t *testing.T) {
	w, result := generate(t, springMenu(), nil)

	assert.Equal(t, 3, w.PageCount())
	assert.Equal(t, []string{"Spring Menu", "Version: 2.1", "Generated: 3/5/2025", "Page 1 of 3"}, w.textsOn(1))
	assert.Contains(t, w.textsOn(2), "About Us")
	assert.Equal(t, []string{"1. Drinks", "1.1 Cola", "No Image", "Page 3 of 3"}, w.textsOn(3))
	assert.NotContains(t, w.allTexts(), "1.2 Lemonade")
	assert.Empty(t, w.images)

	assert.Equal(t, "Spring_Menu_v2.1.pdf", result.FileName)
	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, 1, result.Products)
}

func TestGenerate_FooterIsRightAlignedInBottomMargin(t *testing.T) {
	w, _ := generate(t, springMenu(), nil)

	var footers []textOp
	for _, op := range w.texts {
		if strings.HasPrefix(op.text, "Page ") {
			footers = append(footers, op)
		}
	}
	require.Len(t, footers, 3)
	for i, op := range footers {
		assert.Equal(t, i+1, op.page)
		assert.Equal(t, pdfs.A4Size.Width-30, op.x)
		assert.Equal(t, pdfs.A4Size.Height-10, op.y)
		assert.Equal(t, pdfs.AlignRight, op.align)
	}
}

func TestGenerate_NumbersOnlyIncludedProducts(t *testing.T) {
	snapshot := springMenu()
	snapshot.Products = append(snapshot.Products, product("p3", "Water", "c1"))
	snapshot.Catalog.Categories[0].Products = []models.ProductOrder{
		{ProductID: "p1", Order: 1, Included: true},
		{ProductID: "p2", Order: 2, Included: false},
		{ProductID: "p3", Order: 3, Included: true},
	}

	w, result := generate(t, snapshot, nil)

	texts := w.allTexts()
	assert.Contains(t, texts, "1.1 Cola")
	assert.Contains(t, texts, "1.2 Water")
	assert.NotContains(t, texts, "1.2 Lemonade")
	assert.Equal(t, 2, result.Products)
}

func TestGenerate_SkipsMissingCategoryAndProduct(t *testing.T) {
	snapshot := models.CatalogSnapshot{
		Catalog: models.PDFCatalog{
			Name:    "Gaps",
			Version: "1",
			Categories: []models.CategoryOrder{
				{CategoryID: "gone", Order: 1, Products: []models.ProductOrder{{ProductID: "p1", Order: 1, Included: true}}},
				{CategoryID: "c2", Order: 2, Products: []models.ProductOrder{
					{ProductID: "missing", Order: 1, Included: true},
					{ProductID: "p2", Order: 2, Included: true},
				}},
			},
		},
		Categories: []models.Category{category("c2", "Snacks")},
		Products:   []models.Product{product("p1", "Cola", "gone"), product("p2", "Chips", "c2")},
	}

	w, result := generate(t, snapshot, nil)

	texts := w.allTexts()
	assert.Contains(t, texts, "1. Snacks")
	assert.Contains(t, texts, "1.1 Chips")
	assert.NotContains(t, texts, "1.1 Cola")
	assert.Equal(t, 1, result.Categories)
}

func TestGenerate_SortsCategoriesByOrder(t *testing.T) {
	snapshot := models.CatalogSnapshot{
		Catalog: models.PDFCatalog{
			Name:    "Sorted",
			Version: "1",
			Categories: []models.CategoryOrder{
				{CategoryID: "c", Order: 3},
				{CategoryID: "a", Order: 1},
				{CategoryID: "b", Order: 2},
			},
		},
		Categories: []models.Category{category("a", "Alpha"), category("b", "Beta"), category("c", "Gamma")},
	}

	w, _ := generate(t, snapshot, nil)

	var headings []string
	for _, text := range w.allTexts() {
		if strings.HasSuffix(text, "Alpha") || strings.HasSuffix(text, "Beta") || strings.HasSuffix(text, "Gamma") {
			headings = append(headings, text)
		}
	}
	assert.Equal(t, []string{"1. Alpha", "2. Beta", "3. Gamma"}, headings)
}

func TestGenerate_StartNewPage(t *testing.T) {
	build := func(secondOnNewPage bool) models.CatalogSnapshot {
		return models.CatalogSnapshot{
			Catalog: models.PDFCatalog{
				Name:    "Breaks",
				Version: "1",
				Categories: []models.CategoryOrder{
					{CategoryID: "a", Order: 1, StartNewPage: true, Products: []models.ProductOrder{{ProductID: "p1", Order: 1, Included: true}}},
					{CategoryID: "b", Order: 2, StartNewPage: secondOnNewPage, Products: []models.ProductOrder{{ProductID: "p2", Order: 1, Included: true}}},
				},
			},
			Categories: []models.Category{category("a", "Alpha"), category("b", "Beta")},
			Products:   []models.Product{product("p1", "One", "a"), product("p2", "Two", "b")},
		}
	}

	t.Run("break before flagged category", func(t *testing.T) {
		w, _ := generate(t, build(true), nil)
		assert.Equal(t, 3, w.pageOf("1. Alpha"), "flag on a category already at the top adds no page")
		assert.Equal(t, 4, w.pageOf("2. Beta"))
		assert.Equal(t, 4, w.PageCount())
	})

	t.Run("flows on when not flagged", func(t *testing.T) {
		w, _ := generate(t, build(false), nil)
		assert.Equal(t, 3, w.pageOf("1. Alpha"))
		assert.Equal(t, 3, w.pageOf("2. Beta"))
		assert.Equal(t, 3, w.PageCount())
	})
}

func TestGenerate_BreaksPageWhenProductDoesNotFit(t *testing.T) {
	orders := make([]models.ProductOrder, 0, 10)
	products := make([]models.Product, 0, 10)
	for i := range 10 {
		id := string(rune('a' + i))
		orders = append(orders, models.ProductOrder{ProductID: id, Order: i + 1, Included: true})
		products = append(products, product(id, "Item "+id, "c1"))
	}
	snapshot := models.CatalogSnapshot{
		Catalog: models.PDFCatalog{
			Name:       "Long",
			Version:    "1",
			Categories: []models.CategoryOrder{{CategoryID: "c1", Order: 1, Products: orders}},
		},
		Categories: []models.Category{category("c1", "Everything")},
		Products:   products,
	}

	w, result := generate(t, snapshot, nil)

	// rows start at 35, 85, 135, 185; the fifth would need 235+50 > 277
	assert.Equal(t, 3, w.pageOf("1.4 Item d"))
	assert.Equal(t, 4, w.pageOf("1.5 Item e"))
	assert.Equal(t, 10, result.Products)
	for _, op := range w.texts {
		if strings.HasPrefix(op.text, "Page ") {
			continue
		}
		assert.LessOrEqual(t, op.y, pdfs.A4Size.Height-marginBottom, "text %q below the bottom margin", op.text)
	}
}

func TestGenerate_ImagePlaceholders(t *testing.T) {
	ok := product("p1", "With Image", "c1")
	ok.Image = "https://store/o/products%2Fok.png?alt=media"
	broken := product("p2", "Broken Image", "c1")
	broken.Image = "https://store/o/products%2Fbroken.jpg?alt=media"
	none := product("p3", "No Image At All", "c1")

	snapshot := models.CatalogSnapshot{
		Catalog: models.PDFCatalog{
			Name:    "Images",
			Version: "1",
			Categories: []models.CategoryOrder{{CategoryID: "c1", Order: 1, Products: []models.ProductOrder{
				{ProductID: "p1", Order: 1, Included: true},
				{ProductID: "p2", Order: 2, Included: true},
				{ProductID: "p3", Order: 3, Included: true},
			}}},
		},
		Categories: []models.Category{category("c1", "Gallery")},
		Products:   []models.Product{ok, broken, none},
	}
	resolver := &fakeResolver{payloads: map[string]string{
		ok.Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes")),
	}}

	w, result := generate(t, snapshot, resolver)

	require.Len(t, w.images, 1)
	assert.Equal(t, "thumb:"+ok.Image, w.images[0].name)
	assert.Equal(t, productImageSize, w.images[0].w)

	texts := w.allTexts()
	assert.Contains(t, texts, labelImageFailed)
	assert.Contains(t, texts, labelNoImage)
	assert.Equal(t, 3, result.Products, "failed images do not drop products")
	assert.Equal(t, []string{ok.Image, broken.Image}, resolver.calls)
}

func TestGenerate_CoverAndBackPages(t *testing.T) {
	t.Run("images fill the page", func(t *testing.T) {
		snapshot := springMenu()
		snapshot.Catalog.CoverPage = "cover"
		snapshot.Catalog.BackPage = "back"
		payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg"))
		resolver := &fakeResolver{payloads: map[string]string{"cover": payload, "back": payload}}

		w, _ := generate(t, snapshot, resolver)

		require.Len(t, w.images, 2)
		assert.Equal(t, imageOp{page: 1, name: "page:cover", w: pdfs.A4Size.Width, h: pdfs.A4Size.Height}, w.images[0])
		assert.Equal(t, imageOp{page: 2, name: "page:back", w: pdfs.A4Size.Width, h: pdfs.A4Size.Height}, w.images[1])
		assert.Equal(t, []string{"Page 1 of 3"}, w.textsOn(1))
		assert.Equal(t, []string{"Page 2 of 3"}, w.textsOn(2))
	})

	t.Run("failed images fall back to text", func(t *testing.T) {
		snapshot := springMenu()
		snapshot.Catalog.CoverPage = "cover"
		snapshot.Catalog.BackPage = "back"

		w, _ := generate(t, snapshot, nil)

		assert.Contains(t, w.textsOn(1), "Spring Menu")
		assert.Contains(t, w.textsOn(1), "Cover Image Not Available")
		assert.Contains(t, w.textsOn(2), "About Us")
		assert.Contains(t, w.textsOn(2), "About Us Image Not Available")
	})

	t.Run("no references means no placeholders", func(t *testing.T) {
		w, _ := generate(t, springMenu(), nil)

		assert.NotContains(t, w.allTexts(), "Cover Image Not Available")
		assert.NotContains(t, w.allTexts(), "About Us Image Not Available")
	})
}

func TestGenerate_EmptyCatalogHasCoverAndAboutPage(t *testing.T) {
	snapshot := springMenu()
	snapshot.Catalog.Categories[0].Products[0].Included = false

	w, result := generate(t, snapshot, nil)

	assert.Equal(t, 0, result.Products)
	assert.Contains(t, w.textsOn(1), "Spring Menu")
	assert.Contains(t, w.textsOn(2), "About Us")
	for _, text := range w.allTexts() {
		assert.NotRegexp(t, `^\d+\.\d+ `, text)
	}

	empty := models.CatalogSnapshot{Catalog: models.PDFCatalog{Name: "Empty", Version: "0"}}
	w, result = generate(t, empty, nil)
	assert.Equal(t, 2, w.PageCount())
	assert.Equal(t, 2, result.PageCount)
	assert.Contains(t, w.textsOn(2), "Page 2 of 2")
}

func TestGenerate_PriceBadgeAndDescription(t *testing.T) {
	snapshot := springMenu()
	price := 12.5
	zero := 0.0
	snapshot.Products[0].Price = &price
	snapshot.Products[0].IsBestSeller = true
	snapshot.Products[0].Description = "Fizzy\nIce cold\nThird line is dropped"
	snapshot.Products[1].Price = &zero
	snapshot.Catalog.Categories[0].Products[1].Included = true
	snapshot.Categories[0].Description = strings.Repeat("x", 120)

	w, _ := generate(t, snapshot, nil)

	texts := w.allTexts()
	assert.Contains(t, texts, "$12.5")
	assert.Contains(t, texts, labelBestSeller)
	assert.Contains(t, texts, "Fizzy")
	assert.Contains(t, texts, "Ice cold")
	assert.NotContains(t, texts, "Third line is dropped")
	assert.NotContains(t, texts, "$0")
	assert.Contains(t, texts, strings.Repeat("x", 100)+"...")

	var descY []float64
	for _, op := range w.texts {
		if op.text == "Fizzy" || op.text == "Ice cold" {
			descY = append(descY, op.y)
		}
	}
	require.Len(t, descY, 2)
	assert.InDelta(t, 4.06, descY[1]-descY[0], 1e-9)
}

func TestGenerate_IsDeterministic(t *testing.T) {
	var writers []*recordingWriter
	svc := newTestCatalogService(&fakeResolver{}, &writers)
	snapshot := springMenu()

	for range 2 {
		_, err := svc.Generate(context.Background(), snapshot, &bytes.Buffer{})
		require.NoError(t, err)
	}

	require.Len(t, writers, 2)
	assert.Equal(t, writers[0].texts, writers[1].texts)
	assert.Equal(t, writers[0].pages, writers[1].pages)
	assert.Equal(t, []models.ProductOrder{
		{ProductID: "p1", Order: 1, Included: true},
		{ProductID: "p2", Order: 2, Included: false},
	}, snapshot.Catalog.Categories[0].Products, "snapshot is not modified")
}

func TestGenerate_WriterErrorProducesNoOutput(t *testing.T) {
	svc := NewCatalogService(nil, nil, nil, &fakeResolver{}, passthroughOptimizer{}, zap.NewNop(),
		WithWriterFactory(func() pdfs.DocumentWriter {
			return &recordingWriter{err: errors.New("font missing")}
		}),
	)

	var out bytes.Buffer
	result, err := svc.Generate(context.Background(), springMenu(), &out)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "font missing")
	assert.Zero(t, out.Len())
}

func TestGenerate_WithFpdfWriter(t *testing.T) {
	snapshot := springMenu()
	snapshot.Products[0].Image = "https://store/o/cola.png?alt=media"
	resolver := &fakeResolver{payloads: map[string]string{
		snapshot.Products[0].Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 64, 64)),
	}}
	svc := NewCatalogService(nil, nil, nil, resolver, NewImageOptimizer(), zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }))

	var out bytes.Buffer
	result, err := svc.Generate(context.Background(), snapshot, &out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 3, result.PageCount)
}

func TestGenerate_WithFpdfWriterAndTypographicText(t *testing.T) {
	snapshot := springMenu()
	snapshot.Catalog.Name = "Menú de Primavera – 2025"
	snapshot.Categories[0].Description = "Bebidas frías “de la casa”"
	snapshot.Products[0].Description = "Refreshing cola – served ice cold, “the classic” for 2 €"
	svc := NewCatalogService(nil, nil, nil, &fakeResolver{}, NewImageOptimizer(), zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }))

	var out bytes.Buffer
	var result *models.GenerationResult
	var err error
	require.NotPanics(t, func() { result, err = svc.Generate(context.Background(), snapshot, &out) })
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 3, result.PageCount)
}

func TestGenerate_WithFpdfWriterUnembeddableImage(t *testing.T) {
	snapshot := springMenu()
	snapshot.Products[0].Image = "https://store/o/cola.png?alt=media"
	resolver := &fakeResolver{payloads: map[string]string{
		snapshot.Products[0].Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not a png")),
	}}
	svc := NewCatalogService(nil, nil, nil, resolver, passthroughOptimizer{}, zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }))

	var out bytes.Buffer
	result, err := svc.Generate(context.Background(), snapshot, &out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 3, result.PageCount)
}

func TestLoadSnapshot(t *testing.T) {
	catalog := models.PDFCatalog{Name: "Spring Menu", Version: "2.1"}
	catalog.ID = "cat1"
	svc := NewCatalogService(
		newMemCatalogs(catalog),
		newMemProducts(product("p1", "Cola", "c1")),
		newMemCategories(category("c1", "Drinks")),
		&fakeResolver{}, passthroughOptimizer{}, zap.NewNop(),
	)

	snapshot, err := svc.LoadSnapshot(context.Background(), "cat1")
	require.NoError(t, err)
	assert.Equal(t, "Spring Menu", snapshot.Catalog.Name)
	assert.Len(t, snapshot.Products, 1)
	assert.Len(t, snapshot.Categories, 1)

	_, err = svc.LoadSnapshot(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestGenerate_WalksStagesInOrder(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewCatalogService(nil, nil, nil, &fakeResolver{}, passthroughOptimizer{}, zap.New(core),
		WithClock(func() time.Time { return fixedNow }),
		WithWriterFactory(func() pdfs.DocumentWriter { return &recordingWriter{} }),
	)

	_, err := svc.Generate(context.Background(), springMenu(), &bytes.Buffer{})
	require.NoError(t, err)

	var stages []string
	for _, entry := range logs.FilterMessage("Generation stage").All() {
		stages = append(stages, entry.ContextMap()["to"].(string))
	}
	assert.Equal(t, []string{"RenderingCover", "RenderingBackPage", "RenderingBody", "Finalizing", "Saved"}, stages)
}

func TestGenerationStage_String(t *testing.T) {
	assert.Equal(t, "NotStarted", stageNotStarted.String())
	assert.Equal(t, "generationStage(42)", generationStage(42).String())
}
