package pipeline

import (
	"fmt"
	"image"
	"strings"

	"github.com/visagekit/visage/internal/colorspace"
	"github.com/visagekit/visage/internal/region"
	"github.com/visagekit/visage/internal/types"
)

// ParseMaskType normalizes a mask-type flag to its composite region.
func ParseMaskType(s string) (region.Composite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "face-oval", "faceoval", "face-outline", "faceoutline":
		return region.FaceOutline, nil
	case "face-skin", "faceskin":
		return region.FaceSkin, nil
	}
	return 0, fmt.Errorf("%w: mask type %q (want face-oval or face-skin)", types.ErrConfiguration, s)
}

// ParseOverlayRegion normalizes a filter-region flag to its composite.
func ParseOverlayRegion(s string) (region.Composite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "face-skin", "faceskin", "skin":
		return region.FaceSkin, nil
	case "cheeks", "cheek":
		return region.Cheeks, nil
	}
	return 0, fmt.Errorf("%w: overlay region %q (want face-skin or cheeks)", types.ErrConfiguration, s)
}

// Overlay configures the color-filter mode.
type Overlay struct {
	Color  colorspace.Color
	Alpha  float64
	Region region.Composite
}

// Options parameterizes the single per-frame pipeline. The two mask modes
// and the overlay path share it so the frame logic exists exactly once.
type Options struct {
	// Mask selects the composite that bounds the output frame in mask mode.
	Mask region.Composite
	// Space is the color space of extracted samples.
	Space colorspace.Space
	// Extract enables per-frame mean color sampling.
	Extract bool
	// Overlay, when set, switches the pipeline into color-filter mode and
	// Mask is ignored.
	Overlay *Overlay
}

// Processor applies one frame configuration. It carries no per-frame state.
type Processor struct {
	opts Options
}

// NewProcessor validates the configuration once, before any frame is
// touched.
func NewProcessor(opts Options) (*Processor, error) {
	if opts.Overlay != nil {
		if opts.Overlay.Alpha < 0 || opts.Overlay.Alpha > 1 {
			return nil, fmt.Errorf("%w: alpha %v outside [0,1]", types.ErrConfiguration, opts.Overlay.Alpha)
		}
	}
	return &Processor{opts: opts}, nil
}

// ProcessFrame runs one frame through the configured path. landmarks must
// be the detector's full mesh, indexed by landmark id. The returned sample
// is nil unless extraction is enabled.
func (p *Processor) ProcessFrame(frame *image.RGBA, landmarks []image.Point, timestamp float64) (*image.RGBA, *colorspace.Sample, error) {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	comp := p.opts.Mask
	if p.opts.Overlay != nil {
		comp = p.opts.Overlay.Region
	}

	masks, err := region.BuildMaskSet(landmarks, w, h, comp.Regions()...)
	if err != nil {
		return nil, nil, err
	}
	composite := masks.Compose(comp)

	if p.opts.Overlay != nil {
		out := Blend(frame, composite.Smooth(), p.opts.Overlay.Color, p.opts.Overlay.Alpha)
		return out, nil, nil
	}

	out := CleanArtifacts(ZeroOutside(frame, composite))

	var sample *colorspace.Sample
	if p.opts.Extract {
		s := colorspace.Mean(frame, composite, p.opts.Space, timestamp)
		sample = &s
	}
	return out, sample, nil
}
