package region

import (
	"fmt"
	"image"
	"sort"

	"github.com/visagekit/visage/internal/types"
)

// Mask is a boolean pixel mask for one frame. Masks are frame-local: they
// are rebuilt for every frame and never retained.
type Mask struct {
	W, H int
	bits []bool
}

// NewMask returns an all-false mask of the given dimensions.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, bits: make([]bool, w*h)}
}

// At reports whether the pixel is inside the mask. Out-of-bounds is false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits[y*m.W+x]
}

// Set marks a pixel. Out-of-bounds coordinates are ignored.
func (m *Mask) Set(x, y int) {
	if x >= 0 && y >= 0 && x < m.W && y < m.H {
		m.bits[y*m.W+x] = true
	}
}

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	out := &Mask{W: m.W, H: m.H, bits: make([]bool, len(m.bits))}
	copy(out.bits, m.bits)
	return out
}

// And returns the intersection of two same-shaped masks.
func (m *Mask) And(o *Mask) *Mask {
	out := m.Clone()
	for i := range out.bits {
		out.bits[i] = out.bits[i] && o.bits[i]
	}
	return out
}

// AndNot returns m with every pixel of o removed.
func (m *Mask) AndNot(o *Mask) *Mask {
	out := m.Clone()
	for i := range out.bits {
		out.bits[i] = out.bits[i] && !o.bits[i]
	}
	return out
}

// Or returns the union of two same-shaped masks.
func (m *Mask) Or(o *Mask) *Mask {
	out := m.Clone()
	for i := range out.bits {
		out.bits[i] = out.bits[i] || o.bits[i]
	}
	return out
}

// Count returns the number of true pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// ResolvePoints maps a region traversal onto the frame's pixel landmarks,
// emitting both endpoints of every edge in order. landmarks must be indexed
// by landmark id.
func ResolvePoints(p Path, landmarks []image.Point) []image.Point {
	pts := make([]image.Point, 0, len(p)*2)
	for _, e := range p {
		pts = append(pts, landmarks[e.From], landmarks[e.To])
	}
	return pts
}

// FillPolygon rasterizes an ordered vertex list into a mask of the given
// frame dimensions. Interior pixels are resolved with an even-odd scanline
// pass sampled at pixel centers; boundary pixels are then traced so the
// polygon outline itself is part of the mask. Coordinates equal to the
// frame width/height are clamped one pixel inward (normalized landmarks at
// exactly 1.0 truncate onto the boundary); anything further out is
// rejected, as is any polygon with fewer than 3 distinct vertices.
func FillPolygon(vertices []image.Point, w, h int) (*Mask, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: frame dimensions %dx%d", types.ErrInvalidRegion, w, h)
	}

	pts := make([]image.Point, 0, len(vertices))
	for _, v := range vertices {
		x, y := v.X, v.Y
		if x == w {
			x = w - 1
		}
		if y == h {
			y = h - 1
		}
		if x < 0 || y < 0 || x >= w || y >= h {
			return nil, fmt.Errorf("%w: vertex (%d,%d) outside %dx%d frame", types.ErrInvalidRegion, v.X, v.Y, w, h)
		}
		pts = append(pts, image.Point{X: x, Y: y})
	}

	if distinctPoints(pts) < 3 {
		return nil, fmt.Errorf("%w: polygon has fewer than 3 distinct vertices", types.ErrInvalidRegion)
	}

	m := NewMask(w, h)

	// Interior: even-odd rule, one crossing list per scanline. Sampling at
	// y+0.5 sidesteps vertex-on-scanline double counting, and zero-height
	// edges (consecutive duplicated vertices) never cross.
	for y := 0; y < h; y++ {
		fy := float64(y) + 0.5
		var xs []float64
		j := len(pts) - 1
		for i := 0; i < len(pts); i++ {
			a, b := pts[i], pts[j]
			ay, by := float64(a.Y), float64(b.Y)
			if (ay <= fy) != (by <= fy) {
				x := float64(a.X) + (fy-ay)*(float64(b.X)-float64(a.X))/(by-ay)
				xs = append(xs, x)
			}
			j = i
		}
		sort.Float64s(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			for x := int(xs[k] + 0.5); float64(x)+0.5 < xs[k+1]; x++ {
				m.Set(x, y)
			}
		}
	}

	// Boundary: trace every edge so the outline is inclusive.
	j := len(pts) - 1
	for i := 0; i < len(pts); i++ {
		drawLine(m, pts[j], pts[i])
		j = i
	}

	return m, nil
}

func distinctPoints(pts []image.Point) int {
	seen := make(map[image.Point]struct{}, len(pts))
	for _, p := range pts {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// drawLine marks all pixels of the segment a-b (Bresenham).
func drawLine(m *Mask, a, b image.Point) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		m.Set(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
