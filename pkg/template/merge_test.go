package template

import (
	"encoding/json"
	"reflect"
	"testing"
)

func mustTree(t *testing.T, s string) *Tree {
	t.Helper()
	tree := NewTree()
	if err := json.Unmarshal([]byte(s), tree); err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return tree
}

func jsonOf(t *testing.T, tree *Tree) string {
	t.Helper()
	b, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestMergeDisjoint(t *testing.T) {
	a := mustTree(t, `{"x": 1, "y": [1, 2]}`)
	b := mustTree(t, `{"z": "s", "w": {"k": true}}`)

	got := jsonOf(t, Merge(a, b))
	if want := `{"x":1,"y":[1,2],"z":"s","w":{"k":true}}`; got != want {
		t.Errorf("Merge = %s, want %s", got, want)
	}
}

func TestMergeOverride(t *testing.T) {
	a := mustTree(t, `{"s": 1, "l": [1, 2, 3], "t": {"keep": 1, "n": {"a": 1, "b": 2}}, "r": {"x": 1}}`)
	b := mustTree(t, `{"s": 2, "l": [9], "t": {"n": {"b": 3, "c": 4}}, "r": 5}`)

	got := jsonOf(t, Merge(a, b))
	want := `{"s":2,"l":[9],"t":{"keep":1,"n":{"a":1,"b":3,"c":4}},"r":5}`
	if got != want {
		t.Errorf("Merge = %s, want %s", got, want)
	}
}

func TestMergeDoesNotAlias(t *testing.T) {
	a := mustTree(t, `{"t": {"x": 1}, "l": [{"y": 1}]}`)
	b := mustTree(t, `{"u": {"z": 1}}`)
	before := jsonOf(t, a) + jsonOf(t, b)

	m := Merge(a, b)
	sub, _ := m.Get("t")
	sub.(*Tree).Set("x", 99.0)
	sub, _ = m.Get("u")
	sub.(*Tree).Set("new", true)
	list, _ := m.Get("l")
	list.([]any)[0].(*Tree).Set("y", 42.0)

	if after := jsonOf(t, a) + jsonOf(t, b); after != before {
		t.Errorf("inputs changed: %s -> %s", before, after)
	}
}

func TestMergeNil(t *testing.T) {
	b := mustTree(t, `{"x": 1}`)
	if got := jsonOf(t, Merge(nil, b)); got != `{"x":1}` {
		t.Errorf("Merge(nil, b) = %s", got)
	}
	if got := Merge(nil, nil).Len(); got != 0 {
		t.Errorf("Merge(nil, nil) has %d keys", got)
	}
}

func TestTreeKeepsOrder(t *testing.T) {
	tree := mustTree(t, `{"zeta": 1, "alpha": 2, "mid": 3}`)
	if got, want := tree.Keys(), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}

func TestTreeRejectsNonObject(t *testing.T) {
	if err := json.Unmarshal([]byte(`[1, 2]`), NewTree()); err == nil {
		t.Error("expected error for a JSON array")
	}
}
