// parser.go - Standalone style files and the sample resources written by init.
package template

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExampleStyle is the name of the sample style.
const ExampleStyle = "greeting"

// ExampleFiles returns a sample resources tree keyed by path relative to the
// resources directory. The sample's key images are listed by ExamplePanels.
func ExampleFiles() map[string]string {
	return map[string]string{
		"styles.json": `["greeting"]`,

		"greeting/style.json": `{
  "syntax": "key:mood text:name rtext:body",
  "predicates": {
    "default": {
      "fonts": {
        "title": { "path": "builtin:goregular", "size": 24 },
        "body": { "path": "builtin:goregular", "size": 18 }
      },
      "images": {
        "panel": {
          "key": "mood",
          "pos": [0, 0],
          "divide": [8, 24, 8, 24],
          "textbox": "body",
          "padding": [16, 40],
          "filter": "nearest"
        }
      },
      "textboxes": {
        "body": {
          "font": "body",
          "size": [360, 3],
          "text": "body",
          "pos": [16, 40],
          "color": "#ffffff",
          "overflow": "repeat"
        }
      }
    },
    "exists:text:name": {
      "textboxes": {
        "name": {
          "font": "title",
          "size": [360, 1],
          "text": "name",
          "pos": [16, 8],
          "color": [255, 220, 120]
        }
      }
    },
    "flag:loud": {
      "fonts": { "body": { "size": 24 } }
    },
    "lines:body>2": {
      "textboxes": { "body": { "color": "#ffe0e0" } }
    }
  }
}`,

		"greeting/map.json": `{
  "mood": {
    "calm": "panels/calm.png",
    "angry": "panels/angry.png"
  }
}`,
	}
}

// ExamplePanels returns the solid panel images of the sample style, keyed by
// path relative to the resources directory, as hex colors.
func ExamplePanels() map[string]string {
	return map[string]string{
		"greeting/panels/calm.png":  "#203a5acc",
		"greeting/panels/angry.png": "#6a1c1ccc",
	}
}

// ParseStyleFile loads a standalone style.json. The style is named after its
// directory and has no key mappings.
func ParseStyleFile(path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style: %w", err)
	}
	dir := filepath.Dir(path)
	return ParseStyle(filepath.Base(dir), dir, data)
}
