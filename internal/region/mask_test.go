package region

import (
	"errors"
	"image"
	"testing"

	"github.com/visagekit/visage/internal/types"
)

func TestFillPolygonFullFrame(t *testing.T) {
	// A polygon spanning the whole frame must produce an all-true mask.
	// The corners at (w, h) exercise the clamp for normalized landmarks
	// that truncate onto the boundary.
	w, h := 8, 6
	m, err := FillPolygon([]image.Point{{0, 0}, {w, 0}, {w, h}, {0, h}}, w, h)
	if err != nil {
		t.Fatalf("FillPolygon failed: %v", err)
	}
	if m.Count() != w*h {
		t.Errorf("expected %d pixels set, got %d", w*h, m.Count())
	}
}

func TestFillPolygonTriangle(t *testing.T) {
	m, err := FillPolygon([]image.Point{{1, 1}, {5, 1}, {1, 5}}, 8, 8)
	if err != nil {
		t.Fatalf("FillPolygon failed: %v", err)
	}

	// Vertices and edges are part of the mask.
	for _, p := range []image.Point{{1, 1}, {5, 1}, {1, 5}, {3, 1}, {1, 3}} {
		if !m.At(p.X, p.Y) {
			t.Errorf("boundary pixel (%d,%d) not set", p.X, p.Y)
		}
	}
	if !m.At(2, 2) {
		t.Error("interior pixel (2,2) not set")
	}
	for _, p := range []image.Point{{0, 0}, {7, 7}, {5, 5}, {6, 1}} {
		if m.At(p.X, p.Y) {
			t.Errorf("outside pixel (%d,%d) set", p.X, p.Y)
		}
	}
}

func TestFillPolygonErrors(t *testing.T) {
	cases := []struct {
		name     string
		vertices []image.Point
	}{
		{"x past clamp", []image.Point{{9, 0}, {4, 4}, {0, 4}}},
		{"negative y", []image.Point{{0, -1}, {4, 4}, {0, 4}}},
		{"degenerate point", []image.Point{{3, 3}, {3, 3}, {3, 3}}},
		{"two distinct points", []image.Point{{1, 1}, {5, 5}, {1, 1}, {5, 5}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FillPolygon(tc.vertices, 8, 8)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, types.ErrInvalidRegion) {
				t.Errorf("expected invalid region error, got %v", err)
			}
		})
	}
}

// syntheticLandmarks spreads the full mesh deterministically across the
// frame, enough to rasterize every fixed region without a real detector.
func syntheticLandmarks(w, h int) []image.Point {
	pts := make([]image.Point, MeshPoints)
	for i := range pts {
		pts[i] = image.Point{X: (i * 37) % w, Y: (i * 53) % h}
	}
	return pts
}

func TestComposeFaceSkinExclusions(t *testing.T) {
	w, h := 64, 48
	landmarks := syntheticLandmarks(w, h)

	comp := FaceSkin
	set, err := BuildMaskSet(landmarks, w, h, comp.Regions()...)
	if err != nil {
		t.Fatalf("BuildMaskSet failed: %v", err)
	}
	skin := set.Compose(comp)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !skin.At(x, y) {
				continue
			}
			if !set[FaceOval].At(x, y) {
				t.Fatalf("skin pixel (%d,%d) outside the oval", x, y)
			}
			for _, excl := range []Region{LeftEye, RightEye, Lips} {
				if set[excl].At(x, y) {
					t.Fatalf("skin pixel (%d,%d) inside excluded %s", x, y, excl)
				}
			}
		}
	}
}

func TestComposeCheeksUnion(t *testing.T) {
	w, h := 64, 48
	landmarks := syntheticLandmarks(w, h)

	set, err := BuildMaskSet(landmarks, w, h, Cheeks.Regions()...)
	if err != nil {
		t.Fatalf("BuildMaskSet failed: %v", err)
	}
	cheeks := set.Compose(Cheeks)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := set[LeftCheek].At(x, y) || set[RightCheek].At(x, y)
			if cheeks.At(x, y) != want {
				t.Fatalf("cheeks pixel (%d,%d): got %v, want %v", x, y, cheeks.At(x, y), want)
			}
		}
	}
}

func TestOpenRemovesSpeckle(t *testing.T) {
	m := NewMask(16, 16)
	// A solid 6x6 block survives opening unchanged; a lone pixel does not.
	for y := 4; y < 10; y++ {
		for x := 4; x < 10; x++ {
			m.Set(x, y)
		}
	}
	m.Set(14, 14)

	opened := m.Open()
	if opened.At(14, 14) {
		t.Error("lone pixel survived opening")
	}
	for y := 4; y < 10; y++ {
		for x := 4; x < 10; x++ {
			if !opened.At(x, y) {
				t.Fatalf("block pixel (%d,%d) lost during opening", x, y)
			}
		}
	}
	if opened.Count() != 36 {
		t.Errorf("expected 36 pixels after opening, got %d", opened.Count())
	}
}

func TestCloseFillsHole(t *testing.T) {
	m := NewMask(16, 16)
	for y := 4; y < 12; y++ {
		for x := 4; x < 12; x++ {
			if x == 8 && y == 8 {
				continue // one-pixel hole
			}
			m.Set(x, y)
		}
	}

	closed := m.Close()
	if !closed.At(8, 8) {
		t.Error("hole survived closing")
	}
	if closed.Count() != 64 {
		t.Errorf("expected 64 pixels after closing, got %d", closed.Count())
	}
}

func TestSmoothKeepsFrameEdgeRegions(t *testing.T) {
	// Outside the frame counts as true for erosion, so a full-frame mask
	// must not be eaten away from the border.
	m := NewMask(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.Set(x, y)
		}
	}
	if got := m.Smooth().Count(); got != 64 {
		t.Errorf("full-frame mask shrank to %d pixels", got)
	}
}
