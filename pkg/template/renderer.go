// renderer.go - Multi-line text measurement and drawing for a loaded font.
// Lines are stacked by the face's ascent+descent plus a spacing; the block is
// placed by a two-letter anchor and lines are aligned within the block.
package template

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DefaultSpacing is the gap in pixels between lines.
const DefaultSpacing = 4

// TextStyle holds per-textbox drawing parameters.
type TextStyle struct {
	Color   color.Color
	Anchor  string // horizontal l|m|r followed by vertical a|t|m|s|b|d; default "la"
	Spacing int
	Align   string // left, center or right
}

// Font is a sized face ready for measuring and drawing.
type Font struct {
	name string
	face font.Face
}

// Name returns the font's name in the style.
func (f *Font) Name() string { return f.name }

// Measure returns the bounding box of text using the default line spacing.
func (f *Font) Measure(text string) image.Point {
	return f.measure(strings.Split(text, "\n"), DefaultSpacing)
}

func (f *Font) measure(lines []string, spacing int) image.Point {
	w := 0
	for _, l := range lines {
		w = max(w, font.MeasureString(f.face, l).Ceil())
	}
	n := len(lines)
	return image.Pt(w, n*f.lineHeight()+(n-1)*spacing)
}

func (f *Font) lineHeight() int {
	m := f.face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// Draw renders text onto dst with its anchor point at at.
func (f *Font) Draw(dst draw.Image, at image.Point, text string, st TextStyle) {
	lines := strings.Split(text, "\n")
	size := f.measure(lines, st.Spacing)
	ascent := f.face.Metrics().Ascent.Ceil()
	origin := anchorOrigin(at, size, st.Anchor, ascent)

	col := st.Color
	if col == nil {
		col = color.White
	}
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: f.face,
	}

	step := f.lineHeight() + st.Spacing
	for i, line := range lines {
		lw := font.MeasureString(f.face, line).Ceil()
		x := origin.X + alignOffset(st.Align, size.X, lw)
		y := origin.Y + i*step + ascent
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
	}
}

// Close releases the face.
func (f *Font) Close() error {
	return f.face.Close()
}

// anchorOrigin returns the top-left corner of a text block of the given
// size whose anchor lies at at.
func anchorOrigin(at, size image.Point, anchor string, ascent int) image.Point {
	h, v := byte('l'), byte('a')
	if len(anchor) == 2 {
		h, v = anchor[0], anchor[1]
	}

	o := at
	switch h {
	case 'm':
		o.X -= size.X / 2
	case 'r':
		o.X -= size.X
	}
	switch v {
	case 'm':
		o.Y -= size.Y / 2
	case 's':
		o.Y -= ascent
	case 'b', 'd':
		o.Y -= size.Y
	}
	return o
}

func alignOffset(align string, blockWidth, lineWidth int) int {
	switch align {
	case "center":
		return (blockWidth - lineWidth) / 2
	case "right":
		return blockWidth - lineWidth
	default:
		return 0
	}
}
