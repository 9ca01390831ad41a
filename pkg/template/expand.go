package template

import (
	"image"

	"github.com/disintegration/imaging"
)

// Slice is one of the nine regions of a divided image.
type Slice struct {
	Src image.Rectangle // region of the base image
	Dst image.Rectangle // region of the expanded image
}

// Slices divides an image of size base into a 3x3 grid at the vertical lines
// d[0], d[1] and the horizontal lines d[2], d[3], and maps each cell onto an
// image of size target. Corners keep their size, edges stretch along one
// axis and the centre absorbs the remaining slack. Order is row-major.
func Slices(base, target image.Point, d [4]int) [9]Slice {
	sx := [4]int{0, d[0], d[1], base.X}
	sy := [4]int{0, d[2], d[3], base.Y}
	dx := [4]int{0, d[0], target.X - (base.X - d[1]), target.X}
	dy := [4]int{0, d[2], target.Y - (base.Y - d[3]), target.Y}

	var out [9]Slice
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row*3+col] = Slice{
				Src: image.Rect(sx[col], sy[row], sx[col+1], sy[row+1]),
				Dst: image.Rect(dx[col], dy[row], dx[col+1], dy[row+1]),
			}
		}
	}
	return out
}

// Expand stretches base to target with nine-slice scaling.
func (c *Compositor) Expand(base image.Image, target image.Point, divide [4]int, filter string) *image.NRGBA {
	b := base.Bounds()
	out := c.Blank(target)
	f := Filter(filter)

	for _, s := range Slices(b.Size(), target, divide) {
		if s.Src.Empty() || s.Dst.Empty() {
			continue
		}
		region := imaging.Crop(base, s.Src.Add(b.Min))
		if region.Bounds().Size() != s.Dst.Size() {
			region = imaging.Resize(region, s.Dst.Dx(), s.Dst.Dy(), f)
		}
		out = imaging.Paste(out, region, s.Dst.Min)
	}
	return out
}
