package pdfs

import "io"

// ImageFormat is the encoding of an embedded image
type ImageFormat string

const (
	FormatPNG  ImageFormat = "PNG"
	FormatJPEG ImageFormat = "JPEG"
)

// Align positions text horizontally relative to its x coordinate
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// FontStyle selects the weight of the current font
type FontStyle string

const (
	StyleNormal FontStyle = ""
	StyleBold   FontStyle = "B"
)

// RectStyle selects how a rectangle is painted
type RectStyle string

const (
	RectStroke     RectStyle = "D"
	RectFill       RectStyle = "F"
	RectFillStroke RectStyle = "FD"
)

// Image is encoded pixel data ready to be placed on a page
type Image struct {
	Data   []byte
	Format ImageFormat
}

// DocumentWriter is the drawing surface catalog layout renders onto.
// Coordinates are in the writer's user unit with the origin at the top-left of the page;
// text y coordinates are baselines.
type DocumentWriter interface {
	PaperSize() PaperSize

	AddPage()
	SetPage(n int)
	PageCount() int

	SetFont(style FontStyle, size float64)
	SetTextColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetFillColor(r, g, b int)

	Text(x, y float64, text string, align Align)
	SplitText(text string, width float64) []string
	Rect(x, y, w, h float64, style RectStyle)
	Line(x1, y1, x2, y2 float64)
	Image(name string, img Image, x, y, w, h float64) error

	// Err returns the first error the writer recorded, if any
	Err() error
	WriteTo(w io.Writer) (int64, error)
}
