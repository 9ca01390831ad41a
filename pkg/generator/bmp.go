// bmp.go - BMP output of the stacked frames via golang.org/x/image/bmp.
package generator

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/bmp"
)

type bmpEncoder struct{}

func (bmpEncoder) Encode(w io.Writer, frames []image.Image, cfg Config) error {
	img := Stack(frames)
	// BMP readers commonly ignore alpha, so flatten onto the background.
	flat := NewSolidImage(img.Bounds().Dx(), img.Bounds().Dy(), cfg.background())
	if err := bmp.Encode(w, over(flat, img)); err != nil {
		return fmt.Errorf("encode BMP: %w", err)
	}
	return nil
}
