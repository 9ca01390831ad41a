package template

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

const boxStyle = `{
  "syntax": "text:title rtext:body",
  "predicates": {
    "default": {
      "fonts": { "main": { "path": "builtin:basic", "size": 13 } },
      "images": { "basesize": [200, 100] },
      "textboxes": {
        "body": { "font": "main", "size": [180, 3], "text": "body", "pos": [10, 10] }
      }
    },
    "exists:text:title": {
      "textboxes": {
        "title": { "font": "main", "size": [180, 1], "text": "title", "pos": [10, 0] },
        "body": { "pos": [10, 30] }
      }
    },
    "lines:body>2": {
      "textboxes": { "body": { "color": "#ff0000", "spacing": 0 } }
    },
    "flag:late": {
      "textboxes": { "body": { "pos": [0, 0] } }
    }
  }
}`

func mustStyle(t *testing.T, src string) *Style {
	t.Helper()
	s, err := ParseStyle("test", t.TempDir(), []byte(src))
	if err != nil {
		t.Fatalf("ParseStyle: %v", err)
	}
	return s
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(mustStyle(t, boxStyle), NewFacts(nil, nil))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.BaseSize == nil || *cfg.BaseSize != image.Pt(200, 100) {
		t.Errorf("BaseSize = %v, want (200,100)", cfg.BaseSize)
	}
	if len(cfg.Textboxes) != 1 {
		t.Fatalf("got %d textboxes, want 1", len(cfg.Textboxes))
	}
	body := cfg.Textboxes[0]
	if body.Width() != 180 || body.MaxLines() != 3 || body.Pos != (Point{10, 10}) {
		t.Errorf("body = %+v", body)
	}
	st := body.TextStyle()
	if st.Color != (color.NRGBA{255, 255, 255, 255}) || st.Spacing != DefaultSpacing {
		t.Errorf("text style = %+v, want white with default spacing", st)
	}
}

func TestResolveOrderAndFacts(t *testing.T) {
	style := mustStyle(t, boxStyle)
	facts := NewFacts([]string{"late"}, []string{"text:title"})
	facts.Lines = map[string]int{"body": 3}

	cfg, err := Resolve(style, facts)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cfg.Textboxes) != 2 || cfg.Textboxes[0].Name != "body" || cfg.Textboxes[1].Name != "title" {
		t.Fatalf("textboxes = %+v", cfg.Textboxes)
	}
	body, _ := cfg.Textbox("body")
	// flag:late is declared last, so its position wins.
	if body.Pos != (Point{0, 0}) {
		t.Errorf("body pos = %v, want [0 0]", body.Pos)
	}
	st := body.TextStyle()
	if st.Color != (color.NRGBA{255, 0, 0, 255}) || st.Spacing != 0 {
		t.Errorf("text style = %+v, want red with no spacing", st)
	}
	if body.Font != "main" || body.Text != "body" {
		t.Errorf("merged body lost default fields: %+v", body)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := []string{
		`{"fonts": {"f": {"path": "x.ttf", "size": 0}}}`,
		`{"fonts": []}`,
		`{"images": {"i": {"pos": [0, 0]}}}`,
		`{"images": {"i": {"path": "a.png", "divide": [1, 2, 1, 2]}}}`,
		`{"textboxes": {"t": {"font": "f", "size": [100, 1]}}}`,
		`{"textboxes": {"t": {"font": "f", "text": "x", "size": [0, 1]}}}`,
		`{"textboxes": {"t": {"font": "f", "text": "x", "size": [10, 1], "color": [1, 2]}}}`,
		`{"textboxes": {"t": {"font": "f", "text": "x", "size": [10, 1], "color": [1, 2, 300]}}}`,
		`{"images": {"basesize": "big"}}`,
	}
	for _, src := range tests {
		if _, err := DecodeConfig(mustTree(t, src)); !errors.Is(err, ErrConfig) {
			t.Errorf("DecodeConfig(%s) error = %v, want ErrConfig", src, err)
		}
	}
}

func TestColorDecoding(t *testing.T) {
	tests := []struct {
		src  string
		want color.NRGBA
	}{
		{`{"color": [1, 2, 3]}`, color.NRGBA{1, 2, 3, 255}},
		{`{"color": [1, 2, 3, 4]}`, color.NRGBA{1, 2, 3, 4}},
		{`{"color": "#0a0b0c"}`, color.NRGBA{10, 11, 12, 255}},
	}
	for _, tt := range tests {
		var tb TextboxSpec
		if err := mustTree(t, tt.src).decodeKey("color", &tb.Color); err != nil {
			t.Fatalf("decode %s: %v", tt.src, err)
		}
		if tb.Color.NRGBA != tt.want {
			t.Errorf("%s = %v, want %v", tt.src, tb.Color.NRGBA, tt.want)
		}
	}
}
