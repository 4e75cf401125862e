package service

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"catalog-console/pdfs"
)

// ImagePreset selects how large an embedded image may be
type ImagePreset string

const (
	// PresetThumb is used for product boxes
	PresetThumb ImagePreset = "thumb"
	// PresetPage is used for full-bleed cover and back pages
	PresetPage ImagePreset = "page"
)

const (
	maxSizeThumb = 400
	maxSizePage  = 1600
	jpegQuality  = 85
)

// ImageOptimizerInterface prepares fetched image bytes for embedding
type ImageOptimizerInterface interface {
	Optimize(data []byte, format pdfs.ImageFormat, preset ImagePreset) (pdfs.Image, error)
}

// ImageOptimizer decodes any supported image (JPEG, PNG, GIF, WEBP), scales it down to the preset
// and re-encodes it in the requested embedding format
type ImageOptimizer struct{}

// NewImageOptimizer creates a new ImageOptimizer
func NewImageOptimizer() *ImageOptimizer {
	return &ImageOptimizer{}
}

// Ensure ImageOptimizer implements ImageOptimizerInterface
var _ ImageOptimizerInterface = (*ImageOptimizer)(nil)

// Optimize returns re-encoded image data. Undecodable input is reported as ErrAssetUnavailable.
func (o *ImageOptimizer) Optimize(data []byte, format pdfs.ImageFormat, preset ImagePreset) (pdfs.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return pdfs.Image{}, fmt.Errorf("%w: failed to decode image: %v", ErrAssetUnavailable, err)
	}

	maxDim := maxSizeThumb
	if preset == PresetPage {
		maxDim = maxSizePage
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if format == pdfs.FormatPNG {
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		format = pdfs.FormatJPEG
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	}
	if err != nil {
		return pdfs.Image{}, fmt.Errorf("failed to encode image: %w", err)
	}

	return pdfs.Image{Data: buf.Bytes(), Format: format}, nil
}
