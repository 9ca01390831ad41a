// loader.go - Load styles from a resources directory or a zipped resources bundle.
//
// Layout:
//
//	styles.json            ["greeting", ...]
//	<style>/style.json     {"syntax": "...", "predicates": {...}}
//	<style>/map.json       {"<key>": {"<value>": "<asset path>"}} (optional)
package template

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kumquat-ir/textmaker/pkg/grammar"
)

// Store reads style definitions from a resources directory.
type Store struct {
	Root string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Root: dir}
}

// OpenStore opens a resources directory, or extracts a .zip bundle to a temp
// directory. The returned cleanup function removes any extracted files.
func OpenStore(path string) (*Store, func(), error) {
	noop := func() {}

	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		info, err := os.Stat(path)
		if err != nil {
			return nil, noop, fmt.Errorf("open resources: %w", err)
		}
		if !info.IsDir() {
			return nil, noop, fmt.Errorf("open resources: %s is not a directory", path)
		}
		return NewStore(path), noop, nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	tmpDir, err := os.MkdirTemp("", "textmaker-*")
	if err != nil {
		return nil, noop, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	if err := extractZip(r, tmpDir); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("extract %s: %w", path, err)
	}
	return NewStore(tmpDir), cleanup, nil
}

// Styles returns the names listed in styles.json.
func (s *Store) Styles() ([]string, error) {
	var names []string
	if err := readJSON(filepath.Join(s.Root, "styles.json"), &names); err != nil {
		return nil, err
	}
	return names, nil
}

// StyleDir returns the directory holding a style's files and assets.
func (s *Store) StyleDir(name string) string {
	return filepath.Join(s.Root, name)
}

// LoadStyle reads and validates one style. Predicates are parsed once here.
func (s *Store) LoadStyle(name string) (*Style, error) {
	dir := s.StyleDir(name)

	var sf styleFile
	if err := readJSON(filepath.Join(dir, "style.json"), &sf); err != nil {
		return nil, err
	}

	style, err := newStyle(name, dir, sf)
	if err != nil {
		return nil, err
	}

	mapPath := filepath.Join(dir, "map.json")
	if err := readJSON(mapPath, &style.Mappings); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if style.Mappings == nil {
		style.Mappings = make(map[string]map[string]string)
	}
	return style, nil
}

// ParseStyle builds a style from style.json contents, for styles that do not
// live in a store.
func ParseStyle(name, dir string, data []byte) (*Style, error) {
	var sf styleFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("%w: parse style %s: %v", ErrConfig, name, err)
	}
	style, err := newStyle(name, dir, sf)
	if err != nil {
		return nil, err
	}
	style.Mappings = make(map[string]map[string]string)
	return style, nil
}

func newStyle(name, dir string, sf styleFile) (*Style, error) {
	syntax, err := grammar.ParseSyntax(sf.Syntax)
	if err != nil {
		return nil, fmt.Errorf("%w: style %s: %w", ErrConfig, name, err)
	}

	style := &Style{Name: name, Dir: dir, Syntax: syntax}
	for _, src := range sf.Predicates.Keys() {
		pred, err := ParsePredicate(src)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", name, err)
		}
		v, _ := sf.Predicates.Get(src)
		frag, ok := v.(*Tree)
		if !ok {
			return nil, fmt.Errorf("%w: style %s: predicate %q maps to %T, not an object", ErrConfig, name, src, v)
		}
		style.Predicates = append(style.Predicates, Rule{Source: src, Predicate: pred, Fragment: frag})
	}
	return style, nil
}

// readJSON decodes a JSON file. Decode failures are configuration errors.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrConfig, path, err)
	}
	return nil
}

// extractZip extracts all files from a zip reader into destDir.
func extractZip(r *zip.ReadCloser, destDir string) error {
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)

		// Guard against zip slip.
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in zip: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes a single zip entry to disk.
func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
