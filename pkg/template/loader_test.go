package template

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kumquat-ir/textmaker/pkg/grammar"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestStoreLoadsExample(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, ExampleFiles())
	store := NewStore(root)

	names, err := store.Styles()
	if err != nil {
		t.Fatalf("Styles: %v", err)
	}
	if !reflect.DeepEqual(names, []string{ExampleStyle}) {
		t.Fatalf("Styles = %v", names)
	}

	style, err := store.LoadStyle(ExampleStyle)
	if err != nil {
		t.Fatalf("LoadStyle: %v", err)
	}
	wantSyntax := []grammar.Token{
		{Kind: grammar.KindKey, Name: "mood"},
		{Kind: grammar.KindText, Name: "name"},
		{Kind: grammar.KindRText, Name: "body"},
	}
	if !reflect.DeepEqual(style.Syntax, wantSyntax) {
		t.Errorf("Syntax = %v", style.Syntax)
	}
	var sources []string
	for _, r := range style.Predicates {
		sources = append(sources, r.Source)
	}
	if want := []string{"default", "exists:text:name", "flag:loud", "lines:body>2"}; !reflect.DeepEqual(sources, want) {
		t.Errorf("predicates = %v, want %v", sources, want)
	}
	if got := style.Mappings["mood"]["calm"]; got != "panels/calm.png" {
		t.Errorf("mapping mood/calm = %q", got)
	}
	if style.Dir != filepath.Join(root, ExampleStyle) {
		t.Errorf("Dir = %q", style.Dir)
	}
	if w := ValidateStyle(style); len(w) != 0 {
		t.Errorf("example style has warnings: %v", w)
	}
}

func TestStoreMissingMapIsEmpty(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"styles.json":      `["plain"]`,
		"plain/style.json": `{"syntax": "text:a", "predicates": {"default": {}}}`,
	})
	style, err := NewStore(root).LoadStyle("plain")
	if err != nil {
		t.Fatalf("LoadStyle: %v", err)
	}
	if style.Mappings == nil || len(style.Mappings) != 0 {
		t.Errorf("Mappings = %v, want empty", style.Mappings)
	}
}

func TestLoadStyleErrors(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  error
	}{
		{"malformed json", `{"syntax": `, ErrConfig},
		{"bad syntax kind", `{"syntax": "word:a", "predicates": {}}`, grammar.ErrSyntax},
		{"bad predicate", `{"syntax": "text:a", "predicates": {"sometimes": {}}}`, ErrConfig},
		{"fragment not object", `{"syntax": "text:a", "predicates": {"default": 3}}`, ErrConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, map[string]string{"s/style.json": tt.style})
			_, err := NewStore(root).LoadStyle("s")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrConfig) {
				t.Errorf("error = %v, want it to also be ErrConfig", err)
			}
		})
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenStoreZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.zip")
	writeZip(t, path, ExampleFiles())

	store, cleanup, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if _, err := store.LoadStyle(ExampleStyle); err != nil {
		t.Errorf("LoadStyle: %v", err)
	}

	cleanup()
	if _, err := os.Stat(store.Root); !os.IsNotExist(err) {
		t.Errorf("extracted files not removed: %v", err)
	}
}

func TestOpenStoreRejectsZipSlip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evil.zip")
	writeZip(t, path, map[string]string{"../escape.txt": "x"})

	if _, _, err := OpenStore(path); err == nil {
		t.Fatal("expected error for a path escaping the archive")
	}
}

func TestOpenStoreDirectory(t *testing.T) {
	dir := t.TempDir()
	store, cleanup, err := OpenStore(dir)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer cleanup()
	if store.Root != dir {
		t.Errorf("Root = %q, want %q", store.Root, dir)
	}

	file := filepath.Join(dir, "styles.json")
	writeFiles(t, dir, map[string]string{"styles.json": "[]"})
	if _, _, err := OpenStore(file); err == nil {
		t.Error("expected error opening a plain file")
	}
}
