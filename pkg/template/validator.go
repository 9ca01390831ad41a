// validator.go - Static checks and a readable summary of a loaded style.
package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kumquat-ir/textmaker/pkg/grammar"
)

// ValidateStyle looks for references that can never match: predicates on
// unknown syntax names, textboxes using undeclared fonts and images bound to
// unknown keys. It returns warnings (never fatal errors).
func ValidateStyle(style *Style) []string {
	exists := make(map[string]bool)
	for _, tok := range style.Syntax {
		switch tok.Kind {
		case grammar.KindKey:
			exists["key:"+tok.Name] = true
		default:
			exists["text:"+tok.Name] = true
		}
	}

	fonts := make(map[string]bool)
	boxes := make(map[string]bool)
	for _, r := range style.Predicates {
		sub, _ := section(r.Fragment, "fonts")
		for _, name := range sub.Keys() {
			fonts[name] = true
		}
		sub, _ = section(r.Fragment, "textboxes")
		for _, name := range sub.Keys() {
			boxes[name] = true
		}
	}

	var warnings []string
	for _, r := range style.Predicates {
		for _, a := range r.Predicate.atoms() {
			switch {
			case a.Exists != nil && !exists[a.Exists.String()]:
				warnings = append(warnings, fmt.Sprintf("predicate %q tests %q, which the syntax never binds", r.Source, a.Exists))
			case a.Lines != nil && !boxes[a.Lines.Textbox]:
				warnings = append(warnings, fmt.Sprintf("predicate %q counts lines of unknown textbox %q", r.Source, a.Lines.Textbox))
			}
		}

		sub, err := section(r.Fragment, "textboxes")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("predicate %q: %v", r.Source, err))
			continue
		}
		for _, name := range sub.Keys() {
			var tb TextboxSpec
			if err := sub.decodeKey(name, &tb); err != nil {
				warnings = append(warnings, fmt.Sprintf("predicate %q: textbox %s: %v", r.Source, name, err))
				continue
			}
			if tb.Font != "" && !fonts[tb.Font] {
				warnings = append(warnings, fmt.Sprintf("textbox %q uses undeclared font %q", name, tb.Font))
			}
		}

		sub, err = section(r.Fragment, "images")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("predicate %q: %v", r.Source, err))
			continue
		}
		for _, name := range sub.Keys() {
			if name == baseSizeKey {
				continue
			}
			var img ImageSpec
			if err := sub.decodeKey(name, &img); err != nil {
				warnings = append(warnings, fmt.Sprintf("predicate %q: image %s: %v", r.Source, name, err))
				continue
			}
			if img.Key != "" && !exists["key:"+img.Key] {
				warnings = append(warnings, fmt.Sprintf("image %q is bound to unknown key %q", name, img.Key))
			}
		}
	}

	return warnings
}

// FormatStyle returns a human-readable description of the style's arguments.
func FormatStyle(style *Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Style: %s\n", style.Name)

	usage := make([]string, 0, len(style.Syntax))
	for _, tok := range style.Syntax {
		switch tok.Kind {
		case grammar.KindKey:
			usage = append(usage, "<"+tok.Name+">")
		case grammar.KindText:
			usage = append(usage, "<"+tok.Name+" text>")
		case grammar.KindRText:
			usage = append(usage, "<"+tok.Name+" text...>")
		}
	}
	fmt.Fprintf(&b, "Usage: %s [f:flag...] %s\n", style.Name, strings.Join(usage, " "))

	for _, tok := range style.Syntax {
		if tok.Kind != grammar.KindKey {
			continue
		}
		table, ok := style.Mappings[tok.Name]
		if !ok {
			fmt.Fprintf(&b, "\n  %s: any value\n", tok.Name)
			continue
		}
		values := make([]string, 0, len(table))
		for v := range table {
			values = append(values, v)
		}
		sort.Strings(values)
		fmt.Fprintf(&b, "\n  %s: %s\n", tok.Name, strings.Join(values, ", "))
	}

	if len(style.Predicates) > 0 {
		b.WriteString("\nPredicates:\n")
		for _, r := range style.Predicates {
			fmt.Fprintf(&b, "  %s\n", r.Source)
		}
	}
	return b.String()
}
