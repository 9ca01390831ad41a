// merge.go - Ordered configuration trees and the deep merge used to fold
// predicate fragments together.
package template

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tree is a JSON object that remembers key order. Values are string,
// float64, bool, nil, []any or *Tree.
type Tree struct {
	keys []string
	vals map[string]any
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{vals: make(map[string]any)}
}

// Len returns the number of keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.vals[key]
	return v, ok
}

// Set stores v under key, appending the key if it is new.
func (t *Tree) Set(key string, v any) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	out := NewTree()
	if t == nil {
		return out
	}
	for _, k := range t.keys {
		out.Set(k, cloneValue(t.vals[k]))
	}
	return out
}

// Merge deep-merges b over a. Where both hold a tree under the same key the
// trees are merged recursively; otherwise the value from b wins. Keys keep
// a's order followed by keys new in b. Neither input is modified and the
// result shares no storage with them.
func Merge(a, b *Tree) *Tree {
	out := NewTree()
	for _, k := range a.Keys() {
		av := a.vals[k]
		bv, inB := b.Get(k)
		if !inB {
			out.Set(k, cloneValue(av))
			continue
		}
		at, aIsTree := av.(*Tree)
		bt, bIsTree := bv.(*Tree)
		if aIsTree && bIsTree {
			out.Set(k, Merge(at, bt))
		} else {
			out.Set(k, cloneValue(bv))
		}
	}
	for _, k := range b.Keys() {
		if _, inA := a.Get(k); !inA {
			out.Set(k, cloneValue(b.vals[k]))
		}
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case *Tree:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (t *Tree) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	tree, ok := v.(*Tree)
	if !ok {
		return fmt.Errorf("expected JSON object, got %T", v)
	}
	*t = *tree
	return nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		tree := NewTree()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", keyTok)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			tree.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return tree, nil
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// MarshalJSON encodes the tree as a JSON object in key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(t.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeKey decodes the value under key into v.
func (t *Tree) decodeKey(key string, v any) error {
	raw, ok := t.Get(key)
	if !ok {
		return fmt.Errorf("missing %q", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
