package layout

import (
	"image"
	"strings"
)

// Chunk is one frame's worth of wrapped text.
type Chunk struct {
	Text  string
	Size  image.Point
	Lines int
}

// Paginate splits wrapped text after every maxLines-th line. Joining the
// chunk texts with "\n" gives back the input.
func Paginate(wrapped string, maxLines int, m Measurer) []Chunk {
	lines := strings.Split(wrapped, "\n")
	if maxLines <= 0 {
		maxLines = len(lines)
	}

	chunks := make([]Chunk, 0, (len(lines)+maxLines-1)/maxLines)
	for start := 0; start < len(lines); start += maxLines {
		end := min(start+maxLines, len(lines))
		text := strings.Join(lines[start:end], "\n")
		chunks = append(chunks, Chunk{
			Text:  text,
			Size:  m.Measure(text),
			Lines: end - start,
		})
	}
	return chunks
}

// Truncate keeps the first maxLines lines of wrapped text. Excess lines are
// dropped without any marker.
func Truncate(wrapped string, maxLines int) string {
	if maxLines <= 0 {
		return wrapped
	}
	idx := nthIndex(wrapped, '\n', maxLines)
	if idx < 0 {
		return wrapped
	}
	return wrapped[:idx]
}

// nthIndex returns the byte index of the n-th occurrence of c in s, or -1.
func nthIndex(s string, c byte, n int) int {
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			continue
		}
		n--
		if n == 0 {
			return i
		}
	}
	return -1
}

// Fit is the outcome of laying out one text field into a textbox.
type Fit struct {
	Chunks []Chunk // one chunk unless the textbox repeats
	Lines  int     // line count of the full wrapped text
}

// Overflows reports whether the text spilled into more than one chunk.
func (f Fit) Overflows() bool { return len(f.Chunks) > 1 }

// Layout wraps text into width and applies the overflow policy: with repeat
// the overflow is paginated, otherwise it is truncated to maxLines.
func Layout(text string, width, maxLines int, m Measurer, breakOnAny, repeat bool) Fit {
	wrapped, n := Wrap(text, width, m, breakOnAny)
	if maxLines <= 0 || n <= maxLines {
		return Fit{Chunks: []Chunk{{Text: wrapped, Size: m.Measure(wrapped), Lines: n}}, Lines: n}
	}
	if repeat {
		return Fit{Chunks: Paginate(wrapped, maxLines, m), Lines: n}
	}
	cut := Truncate(wrapped, maxLines)
	return Fit{Chunks: []Chunk{{Text: cut, Size: m.Measure(cut), Lines: maxLines}}, Lines: n}
}
