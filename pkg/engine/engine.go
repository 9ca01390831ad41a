// Package engine turns argument lists into rendered frames. Each argument
// group is parsed against its style's syntax, resolved, laid out, resolved
// again with the resulting line counts and composited into one frame per
// page of repeating text.
package engine

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/davecgh/go-spew/spew"

	"github.com/kumquat-ir/textmaker/pkg/generator"
	"github.com/kumquat-ir/textmaker/pkg/grammar"
	"github.com/kumquat-ir/textmaker/pkg/layout"
	"github.com/kumquat-ir/textmaker/pkg/template"
)

// Font measures and draws text in one face.
type Font interface {
	layout.Measurer
	Draw(dst draw.Image, at image.Point, text string, st template.TextStyle)
	Close() error
}

// FontLoader opens the font described by spec. Relative paths are resolved
// against dir.
type FontLoader interface {
	Load(dir string, spec template.FontSpec) (Font, error)
}

// FontLoaderFunc adapts a function to FontLoader.
type FontLoaderFunc func(dir string, spec template.FontSpec) (Font, error)

func (f FontLoaderFunc) Load(dir string, spec template.FontSpec) (Font, error) {
	return f(dir, spec)
}

// Canvas performs the raster work of compositing a frame.
type Canvas interface {
	Load(path string) (*image.NRGBA, error)
	Blank(size image.Point) *image.NRGBA
	Paste(base *image.NRGBA, layer image.Image, at image.Point) *image.NRGBA
	Expand(base image.Image, target image.Point, divide [4]int, filter string) *image.NRGBA
}

// Store provides style definitions.
type Store interface {
	Styles() ([]string, error)
	LoadStyle(name string) (*template.Style, error)
}

// Options configures an Engine. Fonts and Canvas default to the x/image and
// imaging backed implementations.
type Options struct {
	Store  Store
	Fonts  FontLoader
	Canvas Canvas
	Debug  bool        // log predicate facts for every frame
	Logger *log.Logger // defaults to log.Default()
}

// Engine renders argument lists. It holds no per-render state and may be
// reused for several renders, one at a time.
type Engine struct {
	store  Store
	fonts  FontLoader
	canvas Canvas
	debug  bool
	logger *log.Logger
}

// New creates an engine.
func New(opts Options) *Engine {
	e := &Engine{
		store:  opts.Store,
		fonts:  opts.Fonts,
		canvas: opts.Canvas,
		debug:  opts.Debug,
		logger: opts.Logger,
	}
	if e.fonts == nil {
		fm := template.NewFontManager()
		e.fonts = FontLoaderFunc(func(dir string, spec template.FontSpec) (Font, error) {
			f, err := fm.Load(dir, spec)
			if err != nil {
				return nil, err
			}
			return f, nil
		})
	}
	if e.canvas == nil {
		e.canvas = template.NewCompositor()
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Frame is one composited output image.
type Frame struct {
	Style string
	Image *image.NRGBA
	Text  map[string]string // textbox name → text drawn in this frame
	Lines map[string]int    // textbox name → lines drawn in this frame
}

// Result holds every frame of a render in generation order.
type Result struct {
	Frames  []Frame
	Stacked *image.NRGBA // frames top to bottom
}

// Images returns the frame images in order.
func (r *Result) Images() []image.Image {
	out := make([]image.Image, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Image
	}
	return out
}

// Render processes args, whose first element names the style. Argument
// groups left over after a group is parsed are queued, first in first out,
// as further groups of the same style. Nothing is returned on error.
func (e *Engine) Render(args []string) (*Result, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no style given", template.ErrConfig)
	}

	names, err := e.store.Styles()
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}
	r := &run{
		Engine: e,
		known:  make(map[string]bool, len(names)),
		styles: make(map[string]*template.Style),
	}
	for _, n := range names {
		r.known[n] = true
	}

	pending := [][]string{args}
	for len(pending) > 0 {
		group := pending[0]
		pending = pending[1:]

		residual, err := r.group(group)
		if err != nil {
			return nil, err
		}
		if len(residual) > 0 {
			next := append([]string{group[0]}, residual...)
			pending = append(pending, next)
		}
	}

	res := &Result{Frames: r.frames}
	res.Stacked = generator.Stack(res.Images())
	return res, nil
}

// run is the state of one Render call.
type run struct {
	*Engine
	known  map[string]bool
	styles map[string]*template.Style
	frames []Frame
}

// box is a textbox laid out for the current group.
type box struct {
	name  string
	font  Font
	chunk layout.Chunk
	queue []layout.Chunk // pages still to be drawn, repeating textbox only
}

func (r *run) style(name string) (*template.Style, error) {
	if !r.known[name] {
		return nil, fmt.Errorf("%w: %q is not a recognized style", template.ErrConfig, name)
	}
	if s, ok := r.styles[name]; ok {
		return s, nil
	}
	s, err := r.store.LoadStyle(name)
	if err != nil {
		return nil, fmt.Errorf("load style %s: %w", name, err)
	}
	r.styles[name] = s
	return s, nil
}

// group renders one argument group and returns its residual arguments.
func (r *run) group(args []string) ([]string, error) {
	style, err := r.style(args[0])
	if err != nil {
		return nil, err
	}

	parsed, err := grammar.Parse(args[1:], style.Syntax, style.Mappings)
	if err != nil {
		if errors.Is(err, grammar.ErrUnknownValue) {
			return nil, fmt.Errorf("%w: style %s: %w", template.ErrConfig, style.Name, err)
		}
		return nil, fmt.Errorf("style %s: %w", style.Name, err)
	}
	if len(parsed.Residual) > 0 && len(parsed.Residual) == len(args)-1 {
		return nil, fmt.Errorf("%w: style %s consumed none of %q", grammar.ErrGrammar, style.Name, parsed.Residual)
	}

	facts := template.NewFacts(parsed.Flags, parsed.Exists)
	cfg, err := template.Resolve(style, facts)
	if err != nil {
		return nil, err
	}

	fonts := make(map[string]Font, len(cfg.Fonts))
	defer func() {
		for name, f := range fonts {
			if err := f.Close(); err != nil {
				r.logger.Printf("warning: close font %s: %v", name, err)
			}
		}
	}()
	for _, spec := range cfg.Fonts {
		f, err := r.fonts.Load(style.Dir, spec)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", style.Name, err)
		}
		fonts[spec.Name] = f
	}

	boxes, repeater, err := layoutBoxes(style, cfg, parsed.Text, fonts)
	if err != nil {
		return nil, err
	}

	facts.Lines = make(map[string]int, len(boxes))
	for _, b := range boxes {
		facts.Lines[b.name] = b.chunk.Lines
	}

	for {
		if r.debug {
			r.logger.Printf("style %s frame %d facts:\n%s", style.Name, len(r.frames), spew.Sdump(facts))
		}
		cfg, err := template.Resolve(style, facts)
		if err != nil {
			return nil, err
		}
		frame, err := r.composite(style, cfg, parsed.Keys, boxes)
		if err != nil {
			return nil, err
		}
		r.frames = append(r.frames, frame)

		if repeater == nil || len(repeater.queue) == 0 {
			break
		}
		repeater.chunk, repeater.queue = repeater.queue[0], repeater.queue[1:]
		facts.Lines[repeater.name] = repeater.chunk.Lines
	}

	return parsed.Residual, nil
}

// layoutBoxes wraps the text of every textbox whose text field was supplied.
// It returns the boxes in configuration order and the repeating box, if any.
func layoutBoxes(style *template.Style, cfg *template.Config, text map[string]string, fonts map[string]Font) ([]*box, *box, error) {
	var (
		boxes    []*box
		repeater *box
	)
	for _, tb := range cfg.Textboxes {
		s, ok := text[tb.Text]
		if !ok {
			continue
		}
		font, ok := fonts[tb.Font]
		if !ok {
			return nil, nil, fmt.Errorf("%w: style %s: textbox %s uses unknown font %q", template.ErrConfig, style.Name, tb.Name, tb.Font)
		}

		fit := layout.Layout(s, tb.Width(), tb.MaxLines(), font, tb.BreakOnAny, tb.Repeats())
		b := &box{name: tb.Name, font: font, chunk: fit.Chunks[0], queue: fit.Chunks[1:]}
		if len(b.queue) > 0 {
			if repeater != nil {
				return nil, nil, fmt.Errorf("%w: style %s: duplicate repeating textboxes %s, %s", template.ErrConfig, style.Name, repeater.name, b.name)
			}
			repeater = b
		}
		boxes = append(boxes, b)
	}
	return boxes, repeater, nil
}
