// Package raster provides the built-in canvas-equivalent surface encoder:
// JPEG/PNG encoding of rendered page surfaces with an optional pixel ceiling.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"github.com/jrusco/local-pdf/pkg/core"
)

// Encoder encodes rendered surfaces. MaxPixels, when positive, caps the
// surface area; larger surfaces are downscaled before encoding to keep the
// memory budget bounded.
type Encoder struct {
	MaxPixels int
}

// NewEncoder returns an encoder with no pixel ceiling.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode serializes the surface in the requested format. JPEG quality is
// clamped to [1,100]; PNG ignores quality.
func (e *Encoder) Encode(surface image.Image, format core.ImageFormat, quality int) ([]byte, error) {
	if e.MaxPixels > 0 {
		surface = capPixels(surface, e.MaxPixels)
	}

	var buf bytes.Buffer
	switch format {
	case core.FormatPNG:
		if err := png.Encode(&buf, surface); err != nil {
			return nil, err
		}
	case core.FormatJPEG, "":
		if quality < 1 {
			quality = 1
		}
		if quality > 100 {
			quality = 100
		}
		if err := jpeg.Encode(&buf, surface, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// capPixels downscales the surface so its area stays under maxPixels,
// preserving aspect ratio.
func capPixels(src image.Image, maxPixels int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w*h <= maxPixels {
		return src
	}

	scale := math.Sqrt(float64(maxPixels) / float64(w*h))
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
