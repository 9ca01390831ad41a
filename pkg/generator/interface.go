package generator

import (
	"image"
	"io"
	"sort"
	"strings"
)

// Encoder writes a sequence of frames in one output format.
type Encoder interface {
	Encode(w io.Writer, frames []image.Image, cfg Config) error
}

var encoders = map[string]Encoder{
	".png": pngEncoder{},
	".bmp": bmpEncoder{},
	".avi": aviEncoder{},
}

// Lookup returns the encoder for a file extension such as ".png".
func Lookup(ext string) (Encoder, bool) {
	e, ok := encoders[strings.ToLower(ext)]
	return e, ok
}

// Formats returns the supported extensions, sorted.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for ext := range encoders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
