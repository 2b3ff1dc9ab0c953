package colorspace

import (
	"image"
	"math"

	"github.com/visagekit/visage/internal/region"
)

// Sample is one frame's mean color inside a mask, tagged with the frame's
// presentation time in seconds.
type Sample struct {
	Timestamp float64
	Channels  []float64
	// Empty flags a zero-pixel mask: the mean is undefined and every
	// channel holds NaN rather than a silently defaulted zero.
	Empty bool
}

// Mean computes the per-channel arithmetic mean of the masked pixels of a
// frame in the given space. The conversion is applied to the pixel before
// aggregation, so the statistic is taken in the target space; pixels
// outside the mask carry no weight at all.
func Mean(frame *image.RGBA, mask *region.Mask, space Space, timestamp float64) Sample {
	var sums [3]float64
	count := 0

	b := frame.Bounds()
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if !mask.At(x, y) {
				continue
			}
			off := frame.PixOffset(b.Min.X+x, b.Min.Y+y)
			px := Color{R: frame.Pix[off], G: frame.Pix[off+1], B: frame.Pix[off+2]}
			ch := convert(px, space)
			sums[0] += ch[0]
			sums[1] += ch[1]
			sums[2] += ch[2]
			count++
		}
	}

	n := space.Channels()
	out := Sample{Timestamp: timestamp, Channels: make([]float64, n)}
	if count == 0 {
		out.Empty = true
		for i := range out.Channels {
			out.Channels[i] = math.NaN()
		}
		return out
	}
	for i := range out.Channels {
		out.Channels[i] = sums[i] / float64(count)
	}
	return out
}
