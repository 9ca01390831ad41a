// Package layout wraps text into a pixel width and splits overflowing text
// into per-frame chunks.
package layout

import (
	"image"
	"math/bits"
	"strings"
)

// Measurer reports the pixel bounding box of single- or multi-line text.
type Measurer interface {
	Measure(text string) image.Point
}

// Wrap breaks text into lines narrower than maxWidth. Each break searches for
// the longest fitting prefix and then snaps back to the last space at or
// before that point, unless breakOnAny is set. A break space is dropped.
//
// When not even one character fits, the remaining text is returned as a
// single oversized line.
func Wrap(text string, maxWidth int, m Measurer, breakOnAny bool) (string, int) {
	var out strings.Builder
	rest := []rune(text)

	for len(rest) > 0 {
		if m.Measure(string(rest)).X < maxWidth {
			out.WriteString(string(rest))
			break
		}

		fit := longestFit(rest, maxWidth, m)
		brk := lastSpace(rest, fit)

		switch {
		case brk >= 0 && !breakOnAny:
			out.WriteString(string(rest[:brk]))
			out.WriteByte('\n')
			rest = rest[brk+1:]
		case fit > 0:
			out.WriteString(string(rest[:fit]))
			out.WriteByte('\n')
			rest = rest[fit:]
		default:
			out.WriteString(string(rest))
			rest = nil
		}
	}

	wrapped := out.String()
	return wrapped, strings.Count(wrapped, "\n") + 1
}

// longestFit binary searches the rune index of the longest prefix of s whose
// width is below maxWidth, using floor(log2(len))+1 probes.
func longestFit(s []rune, maxWidth int, m Measurer) int {
	lo, hi := 0, len(s)
	best := 0
	for i := 0; i < bits.Len(uint(len(s))); i++ {
		cur := lo + max(hi-lo, 0)/2
		if cur > len(s) {
			cur = len(s)
		}
		if m.Measure(string(s[:cur])).X < maxWidth {
			best = cur
			lo = cur + 1
		} else {
			hi = cur - 1
		}
	}
	return best
}

// lastSpace returns the index of the last space in s[:limit+1], or -1.
func lastSpace(s []rune, limit int) int {
	end := min(limit+1, len(s))
	for i := end - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}
