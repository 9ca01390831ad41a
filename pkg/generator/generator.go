// Package generator writes rendered frames to disk.
//
// Every format goes through the same pipeline: the frames are collected
// first, then stacked into one PNG or BMP, or containerized as an MJPEG AVI
// slideshow.
package generator

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// PartPrefix is the file name prefix of per-frame outputs.
const PartPrefix = "textbox"

// Config holds output parameters.
type Config struct {
	Background   color.Color // fill for formats without alpha (default: black)
	FrameSeconds int         // AVI only: seconds each frame is shown (default: 1)
	Quality      int         // AVI only: JPEG quality (default: 95)
}

func (c Config) background() color.Color {
	if c.Background == nil {
		return color.Black
	}
	return c.Background
}

// Generate writes frames to output. The format is inferred from the file
// extension; see Formats.
func Generate(output string, frames []image.Image, cfg Config) error {
	ext := filepath.Ext(output)
	if _, ok := Lookup(ext); !ok {
		return fmt.Errorf("unsupported format %q: use one of %s", ext, strings.Join(Formats(), ", "))
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()

	if err := GenerateToWriter(f, ext, frames, cfg); err != nil {
		return err
	}
	return f.Sync()
}

// GenerateToWriter writes frames to w in the format named by ext.
func GenerateToWriter(w io.Writer, ext string, frames []image.Image, cfg Config) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to write")
	}
	enc, ok := Lookup(ext)
	if !ok {
		return fmt.Errorf("unsupported format %q: use one of %s", ext, strings.Join(Formats(), ", "))
	}
	return enc.Encode(w, frames, cfg)
}

// Stack places frames top to bottom on a transparent canvas as wide as the
// widest frame and as tall as all frames together.
func Stack(frames []image.Image) *image.NRGBA {
	w, h := 0, 0
	for _, f := range frames {
		b := f.Bounds()
		w = max(w, b.Dx())
		h += b.Dy()
	}

	out := imaging.New(w, h, color.Transparent)
	y := 0
	for _, f := range frames {
		out = imaging.Paste(out, f, image.Pt(0, y))
		y += f.Bounds().Dy()
	}
	return out
}

// over alpha-composites src onto dst at the origin.
func over(dst *image.NRGBA, src image.Image) *image.NRGBA {
	return imaging.Overlay(dst, src, image.Point{}, 1.0)
}
