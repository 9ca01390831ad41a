// Package grammar binds a flat argument list to a style's syntax tokens.
package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel argument values.
const (
	None   = "!NONE!"
	Repeat = "!REPEAT!"

	flagPrefix = "f:"
)

var (
	// ErrGrammar reports an argument list shorter than the syntax requires.
	ErrGrammar = errors.New("grammar error")
	// ErrUnknownValue reports a key value missing from its mapping table.
	ErrUnknownValue = errors.New("unknown key value")
	// ErrSyntax reports a malformed syntax declaration.
	ErrSyntax = errors.New("malformed syntax")
)

// Kind is the kind of a syntax token.
type Kind string

const (
	KindKey   Kind = "key"
	KindText  Kind = "text"
	KindRText Kind = "rtext"
)

// Token is one element of a style's syntax, e.g. "key:bg" or "rtext:body".
type Token struct {
	Kind Kind
	Name string
}

func (t Token) String() string { return string(t.Kind) + ":" + t.Name }

// ParseSyntax splits a space-separated syntax declaration into tokens.
func ParseSyntax(s string) ([]Token, error) {
	fields := strings.Fields(s)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		kind, name, ok := strings.Cut(f, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: token %q is not kind:name", ErrSyntax, f)
		}
		switch Kind(kind) {
		case KindKey, KindText, KindRText:
		default:
			return nil, fmt.Errorf("%w: token %q has unknown kind %q", ErrSyntax, f, kind)
		}
		tokens = append(tokens, Token{Kind: Kind(kind), Name: name})
	}
	return tokens, nil
}

// Class is the classification of a single argument.
type Class int

const (
	Value Class = iota
	Flag
	Absent
	RepeatMarker
)

// Classify reports how an argument is interpreted. For flags the prefix is
// stripped from the returned value.
func Classify(arg string) (Class, string) {
	switch {
	case arg == None:
		return Absent, ""
	case arg == Repeat:
		return RepeatMarker, ""
	case strings.HasPrefix(arg, flagPrefix):
		return Flag, strings.TrimPrefix(arg, flagPrefix)
	default:
		return Value, arg
	}
}

// Result holds everything bound from one argument group.
type Result struct {
	Text     map[string]string
	Keys     map[string]string
	Exists   []string
	Flags    []string
	Residual []string
}

// Parse binds args against syntax. Key values are resolved through mappings
// when the key name has a table; otherwise they are used literally.
func Parse(args []string, syntax []Token, mappings map[string]map[string]string) (*Result, error) {
	res := &Result{
		Text: make(map[string]string),
		Keys: make(map[string]string),
	}

	rest := args
	for len(rest) > 0 {
		class, flag := Classify(rest[0])
		if class != Flag {
			break
		}
		res.Flags = append(res.Flags, flag)
		rest = rest[1:]
	}

	for _, tok := range syntax {
		if tok.Kind == KindRText {
			var consumed []string
			consumed, rest = splitRepeat(rest)
			res.Text[tok.Name] = strings.Join(consumed, " ")
			res.Exists = append(res.Exists, "text:"+tok.Name)
			continue
		}

		if len(rest) == 0 {
			return nil, fmt.Errorf("%w: missing argument for %s", ErrGrammar, tok)
		}
		arg := rest[0]
		rest = rest[1:]
		if class, _ := Classify(arg); class == Absent {
			continue
		}

		switch tok.Kind {
		case KindKey:
			v, err := resolveKey(tok.Name, arg, mappings)
			if err != nil {
				return nil, err
			}
			res.Keys[tok.Name] = v
			res.Exists = append(res.Exists, "key:"+tok.Name)
		case KindText:
			res.Text[tok.Name] = arg
			res.Exists = append(res.Exists, "text:"+tok.Name)
		}
	}

	res.Residual = rest
	return res, nil
}

// splitRepeat returns the arguments before the first repeat marker and the
// arguments after it. Without a marker everything is consumed.
func splitRepeat(args []string) (consumed, residual []string) {
	for i, a := range args {
		if class, _ := Classify(a); class == RepeatMarker {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

func resolveKey(name, value string, mappings map[string]map[string]string) (string, error) {
	table, ok := mappings[name]
	if !ok {
		return value, nil
	}
	path, ok := table[value]
	if !ok {
		return "", fmt.Errorf("%w: value %q does not exist in mapping table for key %q", ErrUnknownValue, value, name)
	}
	return path, nil
}
