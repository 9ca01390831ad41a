// png.go - PNG writers for the stacked result and per-frame parts.
package generator

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

type pngEncoder struct{}

func (pngEncoder) Encode(w io.Writer, frames []image.Image, _ Config) error {
	if err := png.Encode(w, Stack(frames)); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

// writePNG encodes img to a PNG file at the given path.
func writePNG(output string, img image.Image) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return f.Close()
}

// WriteParts writes each frame to dir as textbox0.png, textbox1.png, ...
// and returns the written paths. Stale parts from earlier runs are removed.
func WriteParts(dir string, frames []image.Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	stale, err := filepath.Glob(filepath.Join(dir, PartPrefix+"*.png"))
	if err != nil {
		return nil, err
	}
	for _, p := range stale {
		if err := os.Remove(p); err != nil {
			return nil, fmt.Errorf("remove stale part: %w", err)
		}
	}

	paths := make([]string, 0, len(frames))
	for i, img := range frames {
		p := filepath.Join(dir, PartPrefix+strconv.Itoa(i)+".png")
		if err := writePNG(p, img); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
