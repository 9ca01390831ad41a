package template

import "fmt"

// ResolveTree folds together, in declaration order, the fragments of every
// rule whose predicate holds for facts.
func ResolveTree(style *Style, facts Facts) *Tree {
	acc := NewTree()
	for _, r := range style.Predicates {
		if r.Predicate.Eval(facts) {
			acc = Merge(acc, r.Fragment)
		}
	}
	return acc
}

// Resolve returns the effective configuration of style for facts.
func Resolve(style *Style, facts Facts) (*Config, error) {
	cfg, err := DecodeConfig(ResolveTree(style, facts))
	if err != nil {
		return nil, fmt.Errorf("style %s: %w", style.Name, err)
	}
	return cfg, nil
}

// baseSizeKey is the reserved images entry giving a blank canvas size.
const baseSizeKey = "basesize"

// DecodeConfig validates a merged tree and converts it to a Config.
func DecodeConfig(t *Tree) (*Config, error) {
	cfg := &Config{}

	fonts, err := section(t, "fonts")
	if err != nil {
		return nil, err
	}
	for _, name := range fonts.Keys() {
		var f FontSpec
		if err := fonts.decodeKey(name, &f); err != nil {
			return nil, fmt.Errorf("%w: font %s: %v", ErrConfig, name, err)
		}
		if f.Size <= 0 {
			return nil, fmt.Errorf("%w: font %s: size must be positive", ErrConfig, name)
		}
		f.Name = name
		cfg.Fonts = append(cfg.Fonts, f)
	}

	images, err := section(t, "images")
	if err != nil {
		return nil, err
	}
	for _, name := range images.Keys() {
		if name == baseSizeKey {
			var p Point
			if err := images.decodeKey(name, &p); err != nil {
				return nil, fmt.Errorf("%w: images.%s: %v", ErrConfig, name, err)
			}
			size := p.Image()
			cfg.BaseSize = &size
			continue
		}
		var img ImageSpec
		if err := images.decodeKey(name, &img); err != nil {
			return nil, fmt.Errorf("%w: image %s: %v", ErrConfig, name, err)
		}
		if img.Path == "" && img.Key == "" {
			return nil, fmt.Errorf("%w: image %s: needs a path or a key", ErrConfig, name)
		}
		if img.Expands() && img.Size == nil && img.Textbox == "" {
			return nil, fmt.Errorf("%w: image %s: divide needs a size or a textbox", ErrConfig, name)
		}
		img.Name = name
		cfg.Images = append(cfg.Images, img)
	}

	boxes, err := section(t, "textboxes")
	if err != nil {
		return nil, err
	}
	for _, name := range boxes.Keys() {
		var tb TextboxSpec
		if err := boxes.decodeKey(name, &tb); err != nil {
			return nil, fmt.Errorf("%w: textbox %s: %v", ErrConfig, name, err)
		}
		if tb.Font == "" || tb.Text == "" {
			return nil, fmt.Errorf("%w: textbox %s: needs a font and a text field", ErrConfig, name)
		}
		if tb.Width() <= 0 {
			return nil, fmt.Errorf("%w: textbox %s: width must be positive", ErrConfig, name)
		}
		tb.Name = name
		cfg.Textboxes = append(cfg.Textboxes, tb)
	}

	return cfg, nil
}

// section returns the subtree under key, or an empty tree when absent.
func section(t *Tree, key string) (*Tree, error) {
	v, ok := t.Get(key)
	if !ok {
		return NewTree(), nil
	}
	sub, ok := v.(*Tree)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an object, got %T", ErrConfig, key, v)
	}
	return sub, nil
}
