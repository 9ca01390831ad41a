// predicate.go - Predicate expressions guarding configuration fragments.
//
//	expr := conj ("|" conj)*
//	conj := atom ("&" atom)*
//	atom := "exists:" name | "flag:" name | "lines:" textbox ">" threshold
//
// The literal expression "default" always holds.
package template

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	predicateLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Punct", Pattern: `[:|&>]`},
		{Name: "Word", Pattern: `[^\s:|&>]+`},
	})

	predicateParser = participle.MustBuild[Predicate](
		participle.Lexer(predicateLexer),
		participle.Elide("Whitespace"),
	)
)

// Predicate is a parsed predicate expression: a disjunction of conjunctions.
type Predicate struct {
	Default bool           `parser:"  @'default'"`
	Any     []*Conjunction `parser:"| @@ ( '|' @@ )*"`
}

// Conjunction holds when all of its atoms hold.
type Conjunction struct {
	All []*Atom `parser:"@@ ( '&' @@ )*"`
}

// Atom is one fact test. Exactly one field is set.
type Atom struct {
	Exists *Name      `parser:"  'exists' ':' @@"`
	Flag   *Name      `parser:"| 'flag' ':' @@"`
	Lines  *LinesAtom `parser:"| 'lines' ':' @@"`
}

// Name is a possibly colon-separated identifier such as "key:portrait".
type Name struct {
	Parts []string `parser:"@Word ( ':' @Word )*"`
}

func (n *Name) String() string { return strings.Join(n.Parts, ":") }

// LinesAtom holds when a textbox laid out more than Threshold lines.
type LinesAtom struct {
	Textbox   string `parser:"@Word '>'"`
	Threshold int    `parser:"@Word"`
}

// ParsePredicate parses a predicate expression.
func ParsePredicate(src string) (*Predicate, error) {
	p, err := predicateParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: predicate %q: %v", ErrConfig, src, err)
	}
	return p, nil
}

// Facts are what predicates are evaluated against.
type Facts struct {
	Flags  map[string]bool
	Exists map[string]bool
	Lines  map[string]int // nil until a layout pass has run
}

// NewFacts builds facts from supplied flags and exists markers.
func NewFacts(flags, exists []string) Facts {
	f := Facts{
		Flags:  make(map[string]bool, len(flags)),
		Exists: make(map[string]bool, len(exists)),
	}
	for _, s := range flags {
		f.Flags[s] = true
	}
	for _, s := range exists {
		f.Exists[s] = true
	}
	return f
}

// Eval reports whether the predicate holds for f.
func (p *Predicate) Eval(f Facts) bool {
	if p.Default {
		return true
	}
	for _, c := range p.Any {
		if c.eval(f) {
			return true
		}
	}
	return false
}

func (c *Conjunction) eval(f Facts) bool {
	for _, a := range c.All {
		if !a.eval(f) {
			return false
		}
	}
	return true
}

func (a *Atom) eval(f Facts) bool {
	switch {
	case a.Exists != nil:
		return f.Exists[a.Exists.String()]
	case a.Flag != nil:
		return f.Flags[a.Flag.String()]
	case a.Lines != nil:
		n, ok := f.Lines[a.Lines.Textbox]
		return ok && n > a.Lines.Threshold
	}
	return false
}

// atoms returns every atom of the predicate.
func (p *Predicate) atoms() []*Atom {
	var out []*Atom
	for _, c := range p.Any {
		out = append(out, c.All...)
	}
	return out
}
