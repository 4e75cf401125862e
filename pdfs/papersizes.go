package pdfs

// PaperSize is a page size in millimetres
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	A4Size     = PaperSize{Name: "A4", Width: 210, Height: 297}
	LetterSize = PaperSize{Name: "Letter", Width: 215.9, Height: 279.4}
)
