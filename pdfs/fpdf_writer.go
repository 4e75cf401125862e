package pdfs

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// FpdfWriter draws onto a go-pdf/fpdf document
type FpdfWriter struct {
	pdf       *fpdf.Fpdf
	size      PaperSize
	translate func(string) string
	images    map[string]bool
}

// NewFpdfWriter creates a portrait writer in millimetres with automatic page breaks disabled
func NewFpdfWriter(size PaperSize) *FpdfWriter {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetFont(fontFamily, "", 12)

	return &FpdfWriter{
		pdf:       pdf,
		size:      size,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		images:    make(map[string]bool),
	}
}

var _ DocumentWriter = (*FpdfWriter)(nil)

func (w *FpdfWriter) PaperSize() PaperSize { return w.size }

func (w *FpdfWriter) AddPage() { w.pdf.AddPage() }

func (w *FpdfWriter) SetPage(n int) { w.pdf.SetPage(n) }

func (w *FpdfWriter) PageCount() int { return w.pdf.PageCount() }

func (w *FpdfWriter) SetFont(style FontStyle, size float64) {
	w.pdf.SetFont(fontFamily, string(style), size)
}

func (w *FpdfWriter) SetTextColor(r, g, b int) { w.pdf.SetTextColor(r, g, b) }

func (w *FpdfWriter) SetDrawColor(r, g, b int) { w.pdf.SetDrawColor(r, g, b) }

func (w *FpdfWriter) SetFillColor(r, g, b int) { w.pdf.SetFillColor(r, g, b) }

// Text draws a single line with its baseline at y
func (w *FpdfWriter) Text(x, y float64, text string, align Align) {
	s := w.translate(text)
	switch align {
	case AlignCenter:
		x -= w.pdf.GetStringWidth(s) / 2
	case AlignRight:
		x -= w.pdf.GetStringWidth(s)
	}
	w.pdf.Text(x, y, s)
}

// SplitText wraps text to lines no wider than width using the current font.
// Lines stay UTF-8; widths are measured on the translated text that Text draws.
func (w *FpdfWriter) SplitText(text string, width float64) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, w.wrap(paragraph, width)...)
	}
	return lines
}

func (w *FpdfWriter) wrap(paragraph string, width float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if w.textWidth(candidate) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		// a word wider than the box is broken between runes
		pieces := w.breakWord(word, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	return append(lines, line)
}

func (w *FpdfWriter) breakWord(word string, width float64) []string {
	var pieces []string
	piece := ""
	for _, r := range word {
		if piece != "" && w.textWidth(piece+string(r)) > width {
			pieces = append(pieces, piece)
			piece = ""
		}
		piece += string(r)
	}
	return append(pieces, piece)
}

func (w *FpdfWriter) textWidth(s string) float64 {
	return w.pdf.GetStringWidth(w.translate(s))
}

func (w *FpdfWriter) Rect(x, y, width, height float64, style RectStyle) {
	w.pdf.Rect(x, y, width, height, string(style))
}

func (w *FpdfWriter) Line(x1, y1, x2, y2 float64) { w.pdf.Line(x1, y1, x2, y2) }

// Image registers img under name (once) and places it in the given box.
// A failed image leaves the document usable.
func (w *FpdfWriter) Image(name string, img Image, x, y, width, height float64) error {
	opts := fpdf.ImageOptions{ImageType: imageType(img.Format)}
	if !w.images[name] {
		w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		if err := w.pdf.Error(); err != nil {
			w.pdf.ClearError()
			return fmt.Errorf("failed to register image %s: %w", name, err)
		}
		w.images[name] = true
	}
	w.pdf.ImageOptions(name, x, y, width, height, false, opts, 0, "")
	if err := w.pdf.Error(); err != nil {
		w.pdf.ClearError()
		return fmt.Errorf("failed to place image %s: %w", name, err)
	}
	return nil
}

func (w *FpdfWriter) Err() error { return w.pdf.Error() }

// WriteTo serializes the document. The document is closed afterwards.
func (w *FpdfWriter) WriteTo(out io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("failed to serialize PDF: %w", err)
	}
	return buf.WriteTo(out)
}

func imageType(format ImageFormat) string {
	if format == FormatPNG {
		return "PNG"
	}
	return "JPG"
}
