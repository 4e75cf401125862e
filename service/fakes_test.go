package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"catalog-console/models"
	"catalog-console/pdfs"
	"catalog-console/repository"
)

// textOp is one string drawn by recordingWriter
type textOp struct {
	page  int
	x, y  float64
	text  string
	align pdfs.Align
}

type imageOp struct {
	page       int
	name       string
	x, y, w, h float64
}

// recordingWriter is a DocumentWriter that remembers what was drawn on which page
type recordingWriter struct {
	pages   int
	current int
	texts   []textOp
	images  []imageOp
	rects   int
	err     error
}

var _ pdfs.DocumentWriter = (*recordingWriter)(nil)

func (w *recordingWriter) PaperSize() pdfs.PaperSize { return pdfs.A4Size }
func (w *recordingWriter) AddPage() {
	w.pages++
	w.current = w.pages
}

func (w *recordingWriter) SetPage(n int) { w.current = n }
func (w *recordingWriter) PageCount() int { return w.pages }

func (w *recordingWriter) SetFont(pdfs.FontStyle, float64) {}
func (w *recordingWriter) SetTextColor(int, int, int) {}
func (w *recordingWriter) SetDrawColor(int, int, int) {}
func (w *recordingWriter) SetFillColor(int, int, int) {}

func (w *recordingWriter) Text(x, y float64, text string, align pdfs.Align) {
	w.texts = append(w.texts, textOp{page: w.current, x: x, y: y, text: text, align: align})
}

func (w *recordingWriter) SplitText(text string, _ float64) []string {
	return strings.Split(text, "\n")
}

func (w *recordingWriter) Rect(float64, float64, float64, float64, pdfs.RectStyle) { w.rects++ }
func (w *recordingWriter) Line(float64, float64, float64, float64) {}

func (w *recordingWriter) Image(name string, _ pdfs.Image, x, y, width, height float64) error {
	w.images = append(w.images, imageOp{page: w.current, name: name, x: x, y: y, w: width, h: height})
	return nil
}

func (w *recordingWriter) Err() error { return w.err }

func (w *recordingWriter) WriteTo(out io.Writer) (int64, error) {
	n, err := io.WriteString(out, "%PDF-recorded")
	return int64(n), err
}

// textsOn returns the strings drawn on page, in drawing order
func (w *recordingWriter) textsOn(page int) []string {
	var out []string
	for _, op := range w.texts {
		if op.page == page {
			out = append(out, op.text)
		}
	}
	return out
}

func (w *recordingWriter) pageOf(text string) int {
	for _, op := range w.texts {
		if op.text == text {
			return op.page
		}
	}
	return 0
}

func (w *recordingWriter) allTexts() []string {
	out := make([]string, 0, len(w.texts))
	for _, op := range w.texts {
		out = append(out, op.text)
	}
	return out
}

// fakeResolver serves payloads by reference and fails for unknown ones
type fakeResolver struct {
	mu       sync.Mutex
	payloads map[string]string
	calls    []string
}

func (r *fakeResolver) FetchBase64(_ context.Context, ref string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ref)
	if p, ok := r.payloads[ref]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: no payload for %s", ErrAssetUnavailable, ref)
}

// passthroughOptimizer embeds bytes unchanged
type passthroughOptimizer struct{}

func (passthroughOptimizer) Optimize(data []byte, format pdfs.ImageFormat, _ ImagePreset) (pdfs.Image, error) {
	return pdfs.Image{Data: data, Format: format}, nil
}

// memCollection is an in-memory repository.Collection keyed by the id function
type memCollection[T any] struct {
	items []T
	id    func(T) string
	err   error
}

func (c *memCollection[T]) GetAll(context.Context) ([]T, error) {
	if c.err != nil {
		return nil, c.err
	}
	return append([]T(nil), c.items...), nil
}

func (c *memCollection[T]) GetByID(_ context.Context, id string) (*T, error) {
	if c.err != nil {
		return nil, c.err
	}
	for i := range c.items {
		if c.id(c.items[i]) == id {
			item := c.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *memCollection[T]) Create(_ context.Context, item *T) (string, error) {
	c.items = append(c.items, *item)
	return c.id(*item), nil
}

func (c *memCollection[T]) Update(context.Context, string, map[string]any) error { return c.err }

func (c *memCollection[T]) Delete(context.Context, string) error { return c.err }

func (c *memCollection[T]) BulkCreate(_ context.Context, items []T) error {
	c.items = append(c.items, items...)
	return nil
}

type memProducts struct {
	memCollection[models.Product]
}

func newMemProducts(items ...models.Product) *memProducts {
	return &memProducts{memCollection[models.Product]{items: items, id: func(p models.Product) string { return p.ID }}}
}

func (m *memProducts) GetByCategory(_ context.Context, categoryID string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.items {
		if p.Category == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) GetBestSellers(context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.items {
		if p.IsBestSeller && p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

type memCategories struct {
	memCollection[models.Category]
}

func newMemCategories(items ...models.Category) *memCategories {
	return &memCategories{memCollection[models.Category]{items: items, id: func(c models.Category) string { return c.ID }}}
}

// memCatalogs applies "categories" updates so saved orders can be inspected
type memCatalogs struct {
	memCollection[models.PDFCatalog]
	saved map[string][]models.CategoryOrder
}

func newMemCatalogs(items ...models.PDFCatalog) *memCatalogs {
	return &memCatalogs{
		memCollection: memCollection[models.PDFCatalog]{items: items, id: func(c models.PDFCatalog) string { return c.ID }},
		saved:         map[string][]models.CategoryOrder{},
	}
}

func (m *memCatalogs) Update(_ context.Context, id string, changes map[string]any) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		if orders, ok := changes["categories"].([]models.CategoryOrder); ok {
			m.items[i].Categories = orders
			m.saved[id] = orders
		}
		return nil
	}
	return repository.ErrNotFound
}

func product(id, title, category string) models.Product {
	p := models.Product{Title: title, Category: category, Status: models.StatusActive}
	p.ID = id
	return p
}

func category(id, name string) models.Category {
	c := models.Category{Name: name, Status: models.StatusActive}
	c.ID = id
	return c
}
