package grammar

import (
	"errors"
	"reflect"
	"testing"
)

func mustSyntax(t *testing.T, s string) []Token {
	t.Helper()
	toks, err := ParseSyntax(s)
	if err != nil {
		t.Fatalf("ParseSyntax(%q): %v", s, err)
	}
	return toks
}

func TestParseSyntax(t *testing.T) {
	toks := mustSyntax(t, "key:portrait text:name  rtext:body")
	want := []Token{{KindKey, "portrait"}, {KindText, "name"}, {KindRText, "body"}}
	if !reflect.DeepEqual(toks, want) {
		t.Fatalf("got %+v, want %+v", toks, want)
	}

	for _, bad := range []string{"name", "key:", "image:bg"} {
		if _, err := ParseSyntax(bad); !errors.Is(err, ErrSyntax) {
			t.Fatalf("ParseSyntax(%q) err = %v, want ErrSyntax", bad, err)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		arg   string
		class Class
		value string
	}{
		{"hello", Value, "hello"},
		{"!NONE!", Absent, ""},
		{"!REPEAT!", RepeatMarker, ""},
		{"f:dark", Flag, "dark"},
		{"f:", Flag, ""},
		{"!none!", Value, "!none!"},
	}
	for _, tt := range tests {
		class, value := Classify(tt.arg)
		if class != tt.class || value != tt.value {
			t.Errorf("Classify(%q) = (%v, %q), want (%v, %q)", tt.arg, class, value, tt.class, tt.value)
		}
	}
}

func TestParseFlagsKeysAndText(t *testing.T) {
	mappings := map[string]map[string]string{
		"portrait": {"happy": "portraits/happy.png"},
	}
	res, err := Parse(
		[]string{"f:dark", "f:big", "happy", "left.png", "Alice"},
		mustSyntax(t, "key:portrait key:frame text:name"),
		mappings,
	)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Flags, []string{"dark", "big"}) {
		t.Fatalf("flags = %v", res.Flags)
	}
	if res.Keys["portrait"] != "portraits/happy.png" {
		t.Fatalf("mapped key = %q", res.Keys["portrait"])
	}
	if res.Keys["frame"] != "left.png" {
		t.Fatalf("unmapped key = %q", res.Keys["frame"])
	}
	if res.Text["name"] != "Alice" {
		t.Fatalf("text = %q", res.Text["name"])
	}
	wantExists := []string{"key:portrait", "key:frame", "text:name"}
	if !reflect.DeepEqual(res.Exists, wantExists) {
		t.Fatalf("exists = %v, want %v", res.Exists, wantExists)
	}
	if len(res.Residual) != 0 {
		t.Fatalf("residual = %v", res.Residual)
	}
}

func TestParseNone(t *testing.T) {
	res, err := Parse([]string{"!NONE!", "!NONE!", "body"}, mustSyntax(t, "key:portrait text:name text:body"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Keys["portrait"]; ok {
		t.Fatal("absent key was bound")
	}
	if _, ok := res.Text["name"]; ok {
		t.Fatal("absent text was bound")
	}
	if !reflect.DeepEqual(res.Exists, []string{"text:body"}) {
		t.Fatalf("exists = %v", res.Exists)
	}
}

func TestParseRepeatedText(t *testing.T) {
	syntax := mustSyntax(t, "text:name rtext:body")

	res, err := Parse([]string{"Bob", "one", "two", "!REPEAT!", "Carol", "three"}, syntax, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text["body"] != "one two" {
		t.Fatalf("body = %q", res.Text["body"])
	}
	if !reflect.DeepEqual(res.Residual, []string{"Carol", "three"}) {
		t.Fatalf("residual = %v", res.Residual)
	}

	res, err = Parse([]string{"Bob", "one", "two"}, syntax, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text["body"] != "one two" || len(res.Residual) != 0 {
		t.Fatalf("body = %q residual = %v", res.Text["body"], res.Residual)
	}

	res, err = Parse([]string{"Bob"}, syntax, nil)
	if err != nil {
		t.Fatal(err)
	}
	if body, ok := res.Text["body"]; !ok || body != "" {
		t.Fatalf("empty rtext = %q, %v", body, ok)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]string{"f:dark"}, mustSyntax(t, "text:name"), nil)
	if !errors.Is(err, ErrGrammar) {
		t.Fatalf("err = %v, want ErrGrammar", err)
	}

	mappings := map[string]map[string]string{"portrait": {"happy": "happy.png"}}
	_, err = Parse([]string{"sad"}, mustSyntax(t, "key:portrait"), mappings)
	if !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("err = %v, want ErrUnknownValue", err)
	}
}
