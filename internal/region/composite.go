package region

import "image"

// Composite names a derived region built from the base masks.
type Composite int

const (
	// FaceOutline is the oval mask alone, no exclusions.
	FaceOutline Composite = iota
	// FaceSkin is the oval minus both eyes and the lips. The exclusion list
	// must stay complete: dropping one region silently leaves its pixels in
	// the composite.
	FaceSkin
	// Cheeks is the union of the two cheek patches.
	Cheeks
)

func (c Composite) String() string {
	switch c {
	case FaceOutline:
		return "faceOutline"
	case FaceSkin:
		return "faceSkin"
	case Cheeks:
		return "cheeks"
	}
	return "unknown"
}

// MaskSet holds the rasterized base masks of one frame.
type MaskSet map[Region]*Mask

// BuildMaskSet rasterizes the given regions against the frame's pixel
// landmarks. landmarks must be indexed by landmark id and cover MeshPoints
// entries.
func BuildMaskSet(landmarks []image.Point, w, h int, regions ...Region) (MaskSet, error) {
	set := make(MaskSet, len(regions))
	for _, r := range regions {
		pts := ResolvePoints(PathOf(r), landmarks)
		m, err := FillPolygon(pts, w, h)
		if err != nil {
			return nil, err
		}
		set[r] = m
	}
	return set, nil
}

// Compose evaluates a composite's fixed precedence script against the
// frame's base masks: base regions are ANDed in, then every exclusion is
// AND-NOT removed, in that order.
func (s MaskSet) Compose(c Composite) *Mask {
	switch c {
	case FaceOutline:
		return s[FaceOval].Clone()
	case FaceSkin:
		return s[FaceOval].AndNot(s[LeftEye]).AndNot(s[RightEye]).AndNot(s[Lips])
	case Cheeks:
		return s[LeftCheek].Or(s[RightCheek])
	}
	return nil
}

// Regions returns the base masks a composite consumes.
func (c Composite) Regions() []Region {
	switch c {
	case FaceOutline:
		return []Region{FaceOval}
	case FaceSkin:
		return []Region{FaceOval, LeftEye, RightEye, Lips}
	case Cheeks:
		return []Region{LeftCheek, RightCheek}
	}
	return nil
}
