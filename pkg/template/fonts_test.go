package template

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestFontManagerBuiltins(t *testing.T) {
	fm := NewFontManager()

	basic, err := fm.Load("", FontSpec{Name: "b", Path: "builtin:basic", Size: 13})
	if err != nil {
		t.Fatalf("Load basic: %v", err)
	}
	defer basic.Close()

	// Face7x13: 7px advance, ascent 11 + descent 2.
	if got := basic.Measure("abc"); got != image.Pt(21, 13) {
		t.Errorf("Measure(abc) = %v, want (21,13)", got)
	}
	if got := basic.Measure("ab\nabcd"); got != image.Pt(28, 13+DefaultSpacing+13) {
		t.Errorf("Measure two lines = %v", got)
	}

	regular, err := fm.Load("", FontSpec{Name: "r", Size: 20})
	if err != nil {
		t.Fatalf("Load goregular: %v", err)
	}
	defer regular.Close()
	if w := regular.Measure("hello world").X; w <= regular.Measure("hello").X {
		t.Errorf("longer text is not wider: %d", w)
	}
}

func TestFontManagerTrueType(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "regular.ttf"), goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	fm := NewFontManager()
	f, err := fm.Load(dir, FontSpec{Name: "tt", Path: "regular.ttf", Size: 16})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer f.Close()
	if got := f.Measure("x"); got.X <= 0 || got.Y <= 0 {
		t.Errorf("Measure = %v", got)
	}

	aa := false
	hard, err := fm.Load(dir, FontSpec{Name: "tt", Path: "regular.ttf", Size: 16, AA: &aa})
	if err != nil {
		t.Fatalf("Load aliased: %v", err)
	}
	defer hard.Close()

	dst := image.NewNRGBA(image.Rect(0, 0, 80, 30))
	hard.Draw(dst, image.Pt(2, 2), "Ag", TextStyle{Color: color.Black})
	for i := 3; i < len(dst.Pix); i += 4 {
		if a := dst.Pix[i]; a != 0 && a != 0xff {
			t.Fatalf("aliased text left partial alpha %d", a)
		}
	}
}

func TestFontManagerErrors(t *testing.T) {
	fm := NewFontManager()
	if _, err := fm.Load(t.TempDir(), FontSpec{Name: "x", Path: "font.woff", Size: 12}); err == nil {
		t.Error("expected error for unsupported font type")
	}
	if _, err := fm.Load(t.TempDir(), FontSpec{Name: "x", Path: "missing.ttf", Size: 12}); err == nil {
		t.Error("expected error for missing file")
	}
	_, err := fm.Load(t.TempDir(), FontSpec{Name: "x", Path: "courB08.pil", Size: 8})
	if !errors.Is(err, ErrConfig) || !strings.Contains(err.Error(), builtinBasic) {
		t.Errorf("pil font error = %v, want ErrConfig naming %s", err, builtinBasic)
	}
}

func TestAnchorOrigin(t *testing.T) {
	size := image.Pt(40, 20)
	tests := []struct {
		anchor string
		want   image.Point
	}{
		{"", image.Pt(100, 100)},
		{"la", image.Pt(100, 100)},
		{"mm", image.Pt(80, 90)},
		{"rb", image.Pt(60, 80)},
		{"ls", image.Pt(100, 85)},
	}
	for _, tt := range tests {
		if got := anchorOrigin(image.Pt(100, 100), size, tt.anchor, 15); got != tt.want {
			t.Errorf("anchorOrigin(%q) = %v, want %v", tt.anchor, got, tt.want)
		}
	}
}
