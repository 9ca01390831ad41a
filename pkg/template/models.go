// Package template resolves predicate-driven style definitions into the
// fonts, images and textboxes of one rendered frame.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/kumquat-ir/textmaker/pkg/generator"
	"github.com/kumquat-ir/textmaker/pkg/grammar"
)

// ErrConfig marks configuration errors: unknown styles or key values,
// malformed style data and conflicting textbox declarations.
var ErrConfig = errors.New("configuration error")

// ── Style types ──

// Style is one loaded style definition. It is read-only once loaded.
type Style struct {
	Name       string
	Dir        string // asset paths are relative to Dir
	Syntax     []grammar.Token
	Predicates []Rule // declaration order is significant
	Mappings   map[string]map[string]string
}

// Rule is one predicate → fragment entry of a style.
type Rule struct {
	Source    string
	Predicate *Predicate
	Fragment  *Tree
}

// styleFile is the on-disk shape of style.json.
type styleFile struct {
	Syntax     string `json:"syntax"`
	Predicates *Tree  `json:"predicates"`
}

// ── Resolved types ──

// Config is the effective configuration for one set of facts. Entries keep
// the order they appear in the merged tree.
type Config struct {
	Fonts     []FontSpec
	Images    []ImageSpec
	Textboxes []TextboxSpec
	BaseSize  *image.Point // blank canvas size, when "basesize" is set
}

// Textbox returns the textbox named name.
func (c *Config) Textbox(name string) (TextboxSpec, bool) {
	for _, tb := range c.Textboxes {
		if tb.Name == name {
			return tb, true
		}
	}
	return TextboxSpec{}, false
}

// Font returns the font named name.
func (c *Config) Font(name string) (FontSpec, bool) {
	for _, f := range c.Fonts {
		if f.Name == name {
			return f, true
		}
	}
	return FontSpec{}, false
}

// FontSpec describes a font face.
type FontSpec struct {
	Name string  `json:"-"`
	Path string  `json:"path"` // .ttf, .otf, "builtin:goregular" or "builtin:basic"
	Size float64 `json:"size"`
	AA   *bool   `json:"aa"`
}

// Antialias reports whether glyphs are drawn antialiased (the default).
func (f FontSpec) Antialias() bool { return f.AA == nil || *f.AA }

// ImageSpec describes one layer of the frame.
type ImageSpec struct {
	Name string `json:"-"`
	Path string `json:"path"`
	Key  string `json:"key"` // use the asset bound to this syntax key instead of Path
	Pos  Point  `json:"pos"`

	// Nine-slice expansion. Target size is Size, or the measured text of
	// Textbox grown by Padding on each side.
	Divide  *[4]int `json:"divide"`
	Size    *Point  `json:"size"`
	Textbox string  `json:"textbox"`
	Padding Point   `json:"padding"`
	Filter  string  `json:"filter"`
}

// Expands reports whether the image is nine-slice expanded.
func (s ImageSpec) Expands() bool { return s.Divide != nil }

// TextboxSpec describes where and how a text field is drawn.
type TextboxSpec struct {
	Name       string `json:"-"`
	Font       string `json:"font"`
	Size       [2]int `json:"size"` // width in pixels, maximum lines
	Text       string `json:"text"` // text field name
	Pos        Point  `json:"pos"`
	Color      *Color `json:"color"`
	Anchor     string `json:"anchor"`
	Spacing    *int   `json:"spacing"`
	Align      string `json:"align"`
	Overflow   string `json:"overflow"` // "repeat" or truncate
	BreakOnAny bool   `json:"breakonany"`
}

// Width is the wrap width in pixels.
func (tb TextboxSpec) Width() int { return tb.Size[0] }

// MaxLines is the line budget per frame.
func (tb TextboxSpec) MaxLines() int { return tb.Size[1] }

// Repeats reports whether overflow spills into extra frames.
func (tb TextboxSpec) Repeats() bool { return tb.Overflow == "repeat" }

// TextStyle returns the drawing parameters of the textbox.
func (tb TextboxSpec) TextStyle() TextStyle {
	st := TextStyle{
		Color:   color.NRGBA{255, 255, 255, 255},
		Anchor:  tb.Anchor,
		Spacing: DefaultSpacing,
		Align:   tb.Align,
	}
	if tb.Color != nil {
		st.Color = tb.Color.NRGBA
	}
	if tb.Spacing != nil {
		st.Spacing = *tb.Spacing
	}
	return st
}

// Point is an [x, y] pair.
type Point [2]int

// Image converts p to an image.Point.
func (p Point) Image() image.Point { return image.Pt(p[0], p[1]) }

// Color is an RGB(A) color written as [r, g, b], [r, g, b, a] or "#rrggbb[aa]".
type Color struct {
	color.NRGBA
}

// UnmarshalJSON accepts a channel list or a hex string.
func (c *Color) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		col, err := generator.ParseHexColor(hex)
		if err != nil {
			return err
		}
		c.NRGBA = col
		return nil
	}

	var ch []int
	if err := json.Unmarshal(data, &ch); err != nil {
		return fmt.Errorf("color must be [r, g, b(, a)] or a hex string: %w", err)
	}
	if len(ch) == 3 {
		ch = append(ch, 255)
	}
	if len(ch) != 4 {
		return fmt.Errorf("color has %d channels, want 3 or 4", len(ch))
	}
	for _, v := range ch {
		if v < 0 || v > 255 {
			return fmt.Errorf("color channel %d out of range", v)
		}
	}
	c.NRGBA = color.NRGBA{uint8(ch[0]), uint8(ch[1]), uint8(ch[2]), uint8(ch[3])}
	return nil
}
