// fonts.go - Font loading for textboxes. TrueType (.ttf) files are parsed with
// freetype, OpenType (.otf) files with x/image/font/opentype. Two builtin
// faces need no file: "builtin:goregular" (the default when no path is given)
// and the fixed 7x13 bitmap face "builtin:basic".
package template

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	builtinGoRegular = "builtin:goregular"
	builtinBasic     = "builtin:basic"
)

// FontManager parses font files once and hands out sized faces.
type FontManager struct {
	dpi       float64
	truetypes map[string]*truetype.Font
	opentypes map[string]*opentype.Font
}

// NewFontManager creates an empty font manager.
func NewFontManager() *FontManager {
	return &FontManager{
		dpi:       72,
		truetypes: make(map[string]*truetype.Font),
		opentypes: make(map[string]*opentype.Font),
	}
}

// Load returns a face for spec. Relative paths are resolved against dir.
// The caller must Close the returned font.
func (fm *FontManager) Load(dir string, spec FontSpec) (*Font, error) {
	face, err := fm.face(dir, spec)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", spec.Name, err)
	}
	if !spec.Antialias() {
		face = aliasedFace{face}
	}
	return &Font{name: spec.Name, face: face}, nil
}

func (fm *FontManager) face(dir string, spec FontSpec) (font.Face, error) {
	switch spec.Path {
	case "", builtinGoRegular:
		return fm.openTypeFace(builtinGoRegular, goregular.TTF, spec.Size)
	case builtinBasic:
		return basicfont.Face7x13, nil
	}

	path := spec.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ttf":
		f, ok := fm.truetypes[path]
		if !ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			f, err = truetype.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("%w: parse %s: %v", ErrConfig, spec.Path, err)
			}
			fm.truetypes[path] = f
		}
		return truetype.NewFace(f, &truetype.Options{
			Size:    spec.Size,
			DPI:     fm.dpi,
			Hinting: font.HintingFull,
		}), nil
	case ".otf":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return fm.openTypeFace(path, data, spec.Size)
	case ".pil":
		return nil, fmt.Errorf("%w: PIL bitmap fonts are not supported, use %q or a .ttf/.otf file", ErrConfig, builtinBasic)
	default:
		return nil, fmt.Errorf("%w: %q is not a supported font type", ErrConfig, ext)
	}
}

func (fm *FontManager) openTypeFace(key string, data []byte, size float64) (font.Face, error) {
	f, ok := fm.opentypes[key]
	if !ok {
		var err error
		f, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: parse font: %v", ErrConfig, err)
		}
		fm.opentypes[key] = f
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     fm.dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// aliasedFace thresholds glyph masks so text is drawn without antialiasing.
type aliasedFace struct {
	font.Face
}

func (f aliasedFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	dr, mask, maskp, advance, ok := f.Face.Glyph(dot, r)
	if !ok || mask == nil {
		return dr, mask, maskp, advance, ok
	}

	hard := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			if a >= 0x8000 {
				hard.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return dr, hard, image.Point{}, advance, true
}
