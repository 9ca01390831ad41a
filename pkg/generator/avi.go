// avi.go - MJPEG AVI slideshow writer. Each frame is JPEG-encoded once and
// shown for Config.FrameSeconds; frames of different sizes are padded onto
// the background so the stream has a single resolution.
package generator

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

type aviEncoder struct{}

func (aviEncoder) Encode(w io.Writer, frames []image.Image, cfg Config) error {
	width, height := 0, 0
	for _, f := range frames {
		width = max(width, f.Bounds().Dx())
		height = max(height, f.Bounds().Dy())
	}

	quality := cfg.Quality
	if quality <= 0 {
		quality = 95
	}

	// Encode every frame up front; chunk sizes feed the headers.
	jpegs := make([][]byte, len(frames))
	maxSize := 0
	for i, f := range frames {
		canvas := NewSolidImage(width, height, cfg.background())
		canvas = imaging.Overlay(canvas, f, image.Point{}, 1.0)

		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
		jpegs[i] = buf.Bytes()
		maxSize = max(maxSize, buf.Len())
	}

	secs := uint32(max(cfg.FrameSeconds, 1))
	n := uint32(len(jpegs))

	moviSize := uint32(4)
	for _, j := range jpegs {
		moviSize += 8 + padded(len(j))
	}
	const strlSize = 4 + (8 + 56) + (8 + 40)
	const hdrlSize = 4 + (8 + 56) + (8 + strlSize)
	idx1Size := 8 + n*16
	fileSize := 4 + (8 + hdrlSize) + (8 + moviSize) + idx1Size

	a := &riffWriter{}

	a.fourCC("RIFF")
	a.u32(fileSize)
	a.fourCC("AVI ")

	// hdrl
	a.fourCC("LIST")
	a.u32(hdrlSize)
	a.fourCC("hdrl")

	a.fourCC("avih")
	a.u32(56)
	a.u32(secs * 1000000) // microseconds per frame
	a.u32(uint32(maxSize))
	a.u32(0)    // padding granularity
	a.u32(0x10) // AVIF_HASINDEX
	a.u32(n)
	a.u32(0) // initial frames
	a.u32(1) // streams
	a.u32(uint32(maxSize))
	a.u32(uint32(width))
	a.u32(uint32(height))
	a.u32(0)
	a.u32(0)
	a.u32(0)
	a.u32(0)

	a.fourCC("LIST")
	a.u32(strlSize)
	a.fourCC("strl")

	a.fourCC("strh")
	a.u32(56)
	a.fourCC("vids")
	a.fourCC("MJPG")
	a.u32(0)    // flags
	a.u16(0)    // priority
	a.u16(0)    // language
	a.u32(0)    // initial frames
	a.u32(secs) // scale
	a.u32(1)    // rate: rate/scale frames per second
	a.u32(0)    // start
	a.u32(n)
	a.u32(uint32(maxSize))
	a.u32(0) // quality
	a.u32(0) // sample size
	a.u16(0)
	a.u16(0)
	a.u16(uint16(width))
	a.u16(uint16(height))

	a.fourCC("strf")
	a.u32(40)
	a.u32(40) // biSize
	a.u32(uint32(width))
	a.u32(uint32(height))
	a.u16(1)  // planes
	a.u16(24) // bit count
	a.fourCC("MJPG")
	a.u32(uint32(width * height * 3))
	a.u32(0)
	a.u32(0)
	a.u32(0)
	a.u32(0)

	// movi
	a.fourCC("LIST")
	a.u32(moviSize)
	a.fourCC("movi")
	for _, j := range jpegs {
		a.fourCC("00dc")
		a.u32(uint32(len(j)))
		a.buf.Write(j)
		if len(j)%2 != 0 {
			a.buf.WriteByte(0)
		}
	}

	// idx1, offsets relative to the "movi" fourcc
	a.fourCC("idx1")
	a.u32(n * 16)
	offset := uint32(4)
	for _, j := range jpegs {
		a.fourCC("00dc")
		a.u32(0x10) // AVIIF_KEYFRAME
		a.u32(offset)
		a.u32(uint32(len(j)))
		offset += 8 + padded(len(j))
	}

	if _, err := w.Write(a.buf.Bytes()); err != nil {
		return fmt.Errorf("write AVI: %w", err)
	}
	return nil
}

// padded rounds a chunk size up to the even boundary RIFF requires.
func padded(n int) uint32 {
	return uint32(n + n%2)
}

type riffWriter struct {
	buf bytes.Buffer
}

func (r *riffWriter) fourCC(s string) { r.buf.WriteString(s) }

func (r *riffWriter) u32(v uint32) {
	r.buf.Write(binary.LittleEndian.AppendUint32(nil, v))
}

func (r *riffWriter) u16(v uint16) {
	r.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
}
