package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// DefaultMaxPixels bounds the decoded size of an image we agree to resize
const DefaultMaxPixels = 25_000_000

// DefaultWidths are the variant widths served for ?w=
var DefaultWidths = []int{320, 640, 960, 1280, 1920}

var ErrTooManyPixels = errors.New("image exceeds pixel budget")

// ImageProcessor produces resized variants of stored photos on read
type ImageProcessor struct {
	// Widths is ascending; requested widths round up to the next entry
	Widths    []int
	MaxPixels int64
	Quality   int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{Widths: DefaultWidths, MaxPixels: DefaultMaxPixels, Quality: 85}
}

// VariantWidth snaps a requested width to the served variant
func (p *ImageProcessor) VariantWidth(width int) int {
	if width <= 0 || len(p.Widths) == 0 {
		return width
	}
	for _, w := range p.Widths {
		if width <= w {
			return w
		}
	}
	return p.Widths[len(p.Widths)-1]
}

// Resize scales data down to the variant for width keeping the aspect
// ratio. PNG stays PNG, everything else is re-encoded as JPEG. Images
// already narrower are returned unchanged. The header is checked against
// MaxPixels before any pixel data is decoded.
func (p *ImageProcessor) Resize(data []byte, contentType string, width int) ([]byte, string, error) {
	if width <= 0 {
		return data, contentType, nil
	}
	width = p.VariantWidth(width)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot decode image: %w", err)
	}
	if p.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > p.MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	if cfg.Width <= width {
		return data, contentType, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if format == "png" {
		if err := imaging.Encode(buf, resized, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("cannot encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := imaging.Encode(buf, resized, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return nil, "", fmt.Errorf("cannot encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
