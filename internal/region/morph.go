package region

// Morphological smoothing with a 3x3 square structuring element. Pixels
// outside the frame count as true for erosion and false for dilation, so
// regions touching the frame edge are not eaten away from outside.

func (m *Mask) window(x, y int, outside bool) (all, any bool) {
	all, any = true, false
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			v := outside
			if nx >= 0 && ny >= 0 && nx < m.W && ny < m.H {
				v = m.bits[ny*m.W+nx]
			}
			all = all && v
			any = any || v
		}
	}
	return all, any
}

func (m *Mask) erode() *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if all, _ := m.window(x, y, true); all {
				out.bits[y*m.W+x] = true
			}
		}
	}
	return out
}

func (m *Mask) dilate() *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if _, any := m.window(x, y, false); any {
				out.bits[y*m.W+x] = true
			}
		}
	}
	return out
}

// Open removes speckle smaller than the 3x3 element (erode then dilate).
func (m *Mask) Open() *Mask {
	return m.erode().dilate()
}

// Close fills gaps smaller than the 3x3 element (dilate then erode).
func (m *Mask) Close() *Mask {
	return m.dilate().erode()
}

// Smooth applies opening then closing, the cleanup used on composite masks
// before they drive an overlay.
func (m *Mask) Smooth() *Mask {
	return m.Open().Close()
}
