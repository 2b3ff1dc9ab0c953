package colorspace

import "image"

// 8-bit sentinels for the running extrema. A frame value must strictly beat
// the sentinel to register, so a video whose focus channel never leaves the
// sentinel bound produces an unset extremum.
const (
	maxSentinel uint8 = 0
	minSentinel uint8 = 255
)

// Extrema is the result of a full-video extremum scan: the complete pixel
// colors at the globally lowest and highest focus-channel values.
type Extrema struct {
	Min, Max           Color
	MinFound, MaxFound bool
}

// Tracker streams frames once and maintains the running single-channel
// extrema. It is the only state carried across frames; everything else in
// the pipeline is frame-local.
type Tracker struct {
	focus    Channel
	minVal   uint8
	maxVal   uint8
	min, max Color
	minSet   bool
	maxSet   bool
}

// NewTracker returns a tracker focused on one RGB channel.
func NewTracker(focus Channel) *Tracker {
	return &Tracker{focus: focus, minVal: minSentinel, maxVal: maxSentinel}
}

// Observe scans one frame in raster order. Within the frame, ties go to the
// first occurrence; across frames, the running maximum only moves on a
// strict increase and the running minimum on a strict decrease. On an
// update the full 3-channel color at the winning pixel is captured.
func (t *Tracker) Observe(frame *image.RGBA) {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	var frameMin, frameMax uint8 = 255, 0
	var minColor, maxColor Color

	for y := 0; y < h; y++ {
		row := frame.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			off := row + x*4
			px := Color{R: frame.Pix[off], G: frame.Pix[off+1], B: frame.Pix[off+2]}
			v := px.Channel(t.focus)
			if v > frameMax {
				frameMax = v
				maxColor = px
			}
			if v < frameMin {
				frameMin = v
				minColor = px
			}
		}
	}

	if w == 0 || h == 0 {
		return
	}
	if frameMax > t.maxVal {
		t.maxVal = frameMax
		t.max = maxColor
		t.maxSet = true
	}
	if frameMin < t.minVal {
		t.minVal = frameMin
		t.min = minColor
		t.minSet = true
	}
}

// Result returns the accumulated extrema.
func (t *Tracker) Result() Extrema {
	return Extrema{
		Min:      t.min,
		Max:      t.max,
		MinFound: t.minSet,
		MaxFound: t.maxSet,
	}
}
