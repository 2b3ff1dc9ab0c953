package pipeline

import (
	"image"

	"github.com/visagekit/visage/internal/colorspace"
	"github.com/visagekit/visage/internal/region"
)

// Frame transforms are pure: they return a new image and leave the input
// untouched, so masks and frames stay independently testable.

// lumaFloor and lumaCeil bound the near-white band treated as mask-edge
// rasterization artifacts. Both bounds are inclusive.
const (
	lumaFloor = 220
	lumaCeil  = 255
)

// ZeroOutside copies the frame with every pixel outside the mask set to
// opaque black.
func ZeroOutside(frame *image.RGBA, mask *region.Mask) *image.RGBA {
	b := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := frame.PixOffset(b.Min.X, b.Min.Y+y)
		dstRow := out.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			src := srcRow + x*4
			dst := dstRow + x*4
			if mask.At(x, y) {
				out.Pix[dst] = frame.Pix[src]
				out.Pix[dst+1] = frame.Pix[src+1]
				out.Pix[dst+2] = frame.Pix[src+2]
			}
			out.Pix[dst+3] = 255
		}
	}
	return out
}

// CleanArtifacts zeroes every pixel whose luma lands in the near-white band.
// The transform is idempotent: black pixels have luma 0 and are never
// re-flagged.
func CleanArtifacts(frame *image.RGBA) *image.RGBA {
	b := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := frame.PixOffset(b.Min.X, b.Min.Y+y)
		dst := out.PixOffset(0, y)
		copy(out.Pix[dst:dst+b.Dx()*4], frame.Pix[src:src+b.Dx()*4])
	}
	for i := 0; i+3 < len(out.Pix); i += 4 {
		px := colorspace.Color{R: out.Pix[i], G: out.Pix[i+1], B: out.Pix[i+2]}
		if l := colorspace.Luma(px); l >= lumaFloor && l <= lumaCeil {
			out.Pix[i] = 0
			out.Pix[i+1] = 0
			out.Pix[i+2] = 0
		}
	}
	return out
}

// Blend alpha-composites a solid color into the masked pixels:
// out = alpha*overlay + (1-alpha)*original, truncated per channel.
// Unmasked pixels pass through unchanged.
func Blend(frame *image.RGBA, mask *region.Mask, overlay colorspace.Color, alpha float64) *image.RGBA {
	b := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	inv := 1 - alpha
	for y := 0; y < b.Dy(); y++ {
		srcRow := frame.PixOffset(b.Min.X, b.Min.Y+y)
		dstRow := out.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			src := srcRow + x*4
			dst := dstRow + x*4
			if mask.At(x, y) {
				out.Pix[dst] = uint8(alpha*float64(overlay.R) + inv*float64(frame.Pix[src]))
				out.Pix[dst+1] = uint8(alpha*float64(overlay.G) + inv*float64(frame.Pix[src+1]))
				out.Pix[dst+2] = uint8(alpha*float64(overlay.B) + inv*float64(frame.Pix[src+2]))
			} else {
				out.Pix[dst] = frame.Pix[src]
				out.Pix[dst+1] = frame.Pix[src+1]
				out.Pix[dst+2] = frame.Pix[src+2]
			}
			out.Pix[dst+3] = 255
		}
	}
	return out
}
