package pipeline

import (
	"errors"
	"image"
	"testing"

	"github.com/visagekit/visage/internal/colorspace"
	"github.com/visagekit/visage/internal/region"
	"github.com/visagekit/visage/internal/types"
)

func TestParseMaskType(t *testing.T) {
	for input, want := range map[string]region.Composite{
		"face-oval": region.FaceOutline,
		"Face-Skin": region.FaceSkin,
		"faceskin":  region.FaceSkin,
	} {
		got, err := ParseMaskType(input)
		if err != nil {
			t.Errorf("ParseMaskType(%q) failed: %v", input, err)
		} else if got != want {
			t.Errorf("ParseMaskType(%q) = %v, want %v", input, got, want)
		}
	}

	_, err := ParseMaskType("cheeks")
	if err == nil {
		t.Fatal("expected error: cheeks is not a mask type")
	}
	if !errors.Is(err, types.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestParseOverlayRegion(t *testing.T) {
	for input, want := range map[string]region.Composite{
		"face-skin": region.FaceSkin,
		"cheeks":    region.Cheeks,
		"Cheek":     region.Cheeks,
	} {
		got, err := ParseOverlayRegion(input)
		if err != nil {
			t.Errorf("ParseOverlayRegion(%q) failed: %v", input, err)
		} else if got != want {
			t.Errorf("ParseOverlayRegion(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseOverlayRegion("face-oval"); err == nil {
		t.Fatal("expected error: face-oval is not an overlay region")
	}
}

func TestNewProcessorValidatesAlpha(t *testing.T) {
	for _, alpha := range []float64{-0.1, 1.01, 2} {
		_, err := NewProcessor(Options{Overlay: &Overlay{Alpha: alpha, Region: region.FaceSkin}})
		if err == nil {
			t.Errorf("alpha %v accepted", alpha)
			continue
		}
		if !errors.Is(err, types.ErrConfiguration) {
			t.Errorf("alpha %v: expected configuration error, got %v", alpha, err)
		}
	}
	for _, alpha := range []float64{0, 0.5, 1} {
		if _, err := NewProcessor(Options{Overlay: &Overlay{Alpha: alpha, Region: region.FaceSkin}}); err != nil {
			t.Errorf("alpha %v rejected: %v", alpha, err)
		}
	}
}

// meshLandmarks spreads the full landmark mesh deterministically across the
// frame so ProcessFrame can run without a detector.
func meshLandmarks(w, h int) []image.Point {
	pts := make([]image.Point, region.MeshPoints)
	for i := range pts {
		pts[i] = image.Point{X: (i * 37) % w, Y: (i * 53) % h}
	}
	return pts
}

func TestProcessFrameMaskMode(t *testing.T) {
	w, h := 64, 48
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(frame.Pix); i += 4 {
		frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2], frame.Pix[i+3] = 90, 120, 150, 255
	}

	proc, err := NewProcessor(Options{Mask: region.FaceOutline, Space: colorspace.RGB, Extract: true})
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}

	out, sample, err := proc.ProcessFrame(frame, meshLandmarks(w, h), 2.0)
	if err != nil {
		t.Fatalf("ProcessFrame failed: %v", err)
	}
	if out.Bounds().Dx() != w || out.Bounds().Dy() != h {
		t.Fatalf("output dims %v", out.Bounds())
	}
	if sample == nil {
		t.Fatal("extraction enabled but no sample returned")
	}
	if sample.Timestamp != 2.0 {
		t.Errorf("sample timestamp %v, want 2.0", sample.Timestamp)
	}
	if sample.Empty {
		t.Error("oval mask unexpectedly empty")
	}
	// Every non-black output pixel must carry the uniform input color.
	for i := 0; i+3 < len(out.Pix); i += 4 {
		r, g, b := out.Pix[i], out.Pix[i+1], out.Pix[i+2]
		if r == 0 && g == 0 && b == 0 {
			continue
		}
		if r != 90 || g != 120 || b != 150 {
			t.Fatalf("pixel %d: got (%d,%d,%d)", i/4, r, g, b)
		}
	}
}

func TestProcessFrameOverlayMode(t *testing.T) {
	w, h := 64, 48
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(frame.Pix); i += 4 {
		frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2], frame.Pix[i+3] = 100, 100, 100, 255
	}

	proc, err := NewProcessor(Options{Overlay: &Overlay{
		Color:  colorspace.Color{B: 255},
		Alpha:  0.5,
		Region: region.Cheeks,
	}})
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}

	out, sample, err := proc.ProcessFrame(frame, meshLandmarks(w, h), 0)
	if err != nil {
		t.Fatalf("ProcessFrame failed: %v", err)
	}
	if sample != nil {
		t.Error("overlay mode must not produce samples")
	}
	// Overlay output holds exactly two colors: the passthrough gray and the
	// blended value inside the smoothed region.
	for i := 0; i+3 < len(out.Pix); i += 4 {
		r, g, b := out.Pix[i], out.Pix[i+1], out.Pix[i+2]
		plain := r == 100 && g == 100 && b == 100
		tinted := r == 50 && g == 50 && b == 177
		if !plain && !tinted {
			t.Fatalf("pixel %d: unexpected color (%d,%d,%d)", i/4, r, g, b)
		}
	}
}
