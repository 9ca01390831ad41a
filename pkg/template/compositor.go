// compositor.go - Raster operations for building frames: loading layers,
// blank canvases, alpha compositing and resampling filters.
package template

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// Compositor builds frames out of image layers.
type Compositor struct{}

// NewCompositor returns a compositor.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// Load decodes an image file.
func (c *Compositor) Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return imaging.Clone(img), nil
}

// Blank returns a transparent canvas of the given size.
func (c *Compositor) Blank(size image.Point) *image.NRGBA {
	return imaging.New(size.X, size.Y, color.Transparent)
}

// Paste alpha-composites layer onto base with its top-left corner at at.
// base is left untouched.
func (c *Compositor) Paste(base *image.NRGBA, layer image.Image, at image.Point) *image.NRGBA {
	return imaging.Overlay(base, layer, at, 1.0)
}

// Filter maps a resampling filter name to an imaging filter. Unknown and
// empty names select nearest neighbour.
func Filter(name string) imaging.ResampleFilter {
	switch strings.ToLower(name) {
	case "bilinear", "linear":
		return imaging.Linear
	case "bicubic", "catmullrom":
		return imaging.CatmullRom
	case "box":
		return imaging.Box
	case "lanczos":
		return imaging.Lanczos
	case "hamming":
		return imaging.Hamming
	case "gaussian":
		return imaging.Gaussian
	default:
		return imaging.NearestNeighbor
	}
}
