package engine

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/kumquat-ir/textmaker/pkg/template"
)

// composite builds one frame. The frame starts from a blank "basesize"
// canvas or from the first image; later images are alpha-composited at their
// positions and the laid out text is drawn on top.
func (r *run) composite(style *template.Style, cfg *template.Config, keys map[string]string, boxes []*box) (Frame, error) {
	var frame *image.NRGBA
	if cfg.BaseSize != nil {
		frame = r.canvas.Blank(*cfg.BaseSize)
	}

	for _, spec := range cfg.Images {
		layer, err := r.layer(style, cfg, spec, keys, boxes)
		if err != nil {
			return Frame{}, fmt.Errorf("style %s: image %s: %w", style.Name, spec.Name, err)
		}
		if layer == nil {
			continue
		}
		if frame == nil {
			frame = layer
			continue
		}
		frame = r.canvas.Paste(frame, layer, spec.Pos.Image())
	}

	if frame == nil {
		frame = r.canvas.Blank(textBounds(cfg, boxes))
	}

	out := Frame{
		Style: style.Name,
		Image: frame,
		Text:  make(map[string]string, len(boxes)),
		Lines: make(map[string]int, len(boxes)),
	}
	for _, b := range boxes {
		tb, ok := cfg.Textbox(b.name)
		if !ok {
			continue
		}
		b.font.Draw(frame, tb.Pos.Image(), b.chunk.Text, tb.TextStyle())
		out.Text[b.name] = b.chunk.Text
		out.Lines[b.name] = b.chunk.Lines
	}
	return out, nil
}

// layer loads one image of the frame. Images bound to a key that was given
// as absent, or sized against a textbox given no text, are skipped and yield
// a nil layer.
func (r *run) layer(style *template.Style, cfg *template.Config, spec template.ImageSpec, keys map[string]string, boxes []*box) (*image.NRGBA, error) {
	path := spec.Path
	if spec.Key != "" {
		v, ok := keys[spec.Key]
		if !ok {
			if r.debug {
				r.logger.Printf("style %s: image %s skipped, key %s not given", style.Name, spec.Name, spec.Key)
			}
			return nil, nil
		}
		path = v
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(style.Dir, path)
	}

	var target image.Point
	if spec.Expands() {
		t, ok, err := expandTarget(cfg, spec, boxes)
		if err != nil {
			return nil, err
		}
		if !ok {
			if r.debug {
				r.logger.Printf("style %s: image %s skipped, textbox %s has no text", style.Name, spec.Name, spec.Textbox)
			}
			return nil, nil
		}
		target = t
	}

	img, err := r.canvas.Load(path)
	if err != nil {
		return nil, err
	}
	if !spec.Expands() {
		return img, nil
	}
	return r.canvas.Expand(img, target, *spec.Divide, spec.Filter), nil
}

// expandTarget is the size a nine-slice image is stretched to: its fixed
// size, or the text of its textbox grown by the padding on every side. It
// reports false when the textbox exists but was given no text.
func expandTarget(cfg *template.Config, spec template.ImageSpec, boxes []*box) (image.Point, bool, error) {
	if spec.Size != nil {
		return spec.Size.Image(), true, nil
	}
	tb, ok := cfg.Textbox(spec.Textbox)
	if !ok {
		return image.Point{}, false, fmt.Errorf("%w: unknown textbox %q", template.ErrConfig, spec.Textbox)
	}
	for _, b := range boxes {
		if b.name == spec.Textbox {
			pad := spec.Padding.Image()
			return b.size(tb).Add(pad.Mul(2)), true, nil
		}
	}
	return image.Point{}, false, nil
}

// size is the drawn size of the box's current chunk. Chunks are measured
// with the default line spacing; the textbox's own spacing is applied here.
func (b *box) size(tb template.TextboxSpec) image.Point {
	s := b.chunk.Size
	if b.chunk.Lines > 1 {
		s.Y += (b.chunk.Lines - 1) * (tb.TextStyle().Spacing - template.DefaultSpacing)
	}
	return s
}

// textBounds is the smallest canvas holding every laid out textbox, used when
// a frame has neither a base image nor a basesize.
func textBounds(cfg *template.Config, boxes []*box) image.Point {
	var size image.Point
	for _, b := range boxes {
		tb, ok := cfg.Textbox(b.name)
		if !ok {
			continue
		}
		end := tb.Pos.Image().Add(b.size(tb))
		size.X = max(size.X, end.X)
		size.Y = max(size.Y, end.Y)
	}
	return size
}
