package region

import (
	"fmt"

	"github.com/visagekit/visage/internal/types"
)

// MeshPoints is the landmark count of the face-mesh detector contract.
// Every index below must stay within [0, MeshPoints).
const MeshPoints = 478

// Landmark index cycles of the six facial regions. Each list is closed
// (first and last index coincide) but the traversal order is reconstructed
// by BuildPath rather than trusted.
var (
	leftEyeIdx    = []int{301, 334, 296, 336, 285, 413, 464, 453, 452, 451, 450, 449, 448, 261, 265, 383, 301}
	leftCheekIdx  = []int{265, 261, 448, 449, 450, 451, 452, 350, 277, 371, 266, 425, 280, 346, 340, 265}
	rightEyeIdx   = []int{71, 105, 66, 107, 55, 189, 244, 233, 232, 231, 230, 229, 228, 31, 35, 156, 71}
	rightCheekIdx = []int{35, 31, 228, 229, 230, 231, 232, 233, 128, 114, 126, 142, 36, 205, 50, 117, 111, 35}
	lipsIdx       = []int{164, 393, 391, 322, 410, 287, 273, 335, 406, 313, 18, 83, 182, 106, 43, 57, 186, 92, 165, 167, 164}
	faceOvalIdx   = []int{10, 338, 297, 332, 284, 251, 389, 356, 345, 352, 376, 433, 397, 365, 379, 378, 400, 377,
		152, 148, 176, 149, 150, 136, 172, 213, 147, 123, 116, 127, 162, 21, 54, 103, 67, 109, 10}
)

// Region names a facial area with a fixed landmark cycle.
type Region int

const (
	LeftEye Region = iota
	RightEye
	LeftCheek
	RightCheek
	Lips
	FaceOval
)

func (r Region) String() string {
	switch r {
	case LeftEye:
		return "leftEye"
	case RightEye:
		return "rightEye"
	case LeftCheek:
		return "leftCheek"
	case RightCheek:
		return "rightCheek"
	case Lips:
		return "lips"
	case FaceOval:
		return "faceOval"
	}
	return fmt.Sprintf("Region(%d)", int(r))
}

// Edge is one directed segment of a region boundary.
type Edge struct {
	From, To int
}

// Path is an ordered closed chain of edges: Path[i].To == Path[i+1].From,
// and the last edge leads back to the first.
type Path []Edge

// BuildPath reconstructs a closed traversal from a raw closed index cycle.
// Candidate edges are the consecutive pairs of the input; starting from the
// first candidate, the edge whose From matches the current To is emitted
// until every candidate has been chained. A vertex may appear as a From at
// most once; a missing successor means the region table itself is broken.
func BuildPath(indices []int) (Path, error) {
	if len(indices) < 4 {
		return nil, fmt.Errorf("%w: region cycle needs at least 3 edges, got %d indices", types.ErrConfiguration, len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= MeshPoints {
			return nil, fmt.Errorf("%w: landmark index %d outside mesh contract [0,%d)", types.ErrConfiguration, idx, MeshPoints)
		}
	}

	candidates := make([]Edge, 0, len(indices)-1)
	for i := 0; i < len(indices)-1; i++ {
		candidates = append(candidates, Edge{From: indices[i], To: indices[i+1]})
	}

	bySource := make(map[int]Edge, len(candidates))
	for _, e := range candidates {
		if _, dup := bySource[e.From]; dup {
			return nil, fmt.Errorf("%w: landmark %d appears twice as an edge source", types.ErrConfiguration, e.From)
		}
		bySource[e.From] = e
	}

	path := make(Path, 0, len(candidates))
	cur := candidates[0]
	for range candidates {
		next, ok := bySource[cur.To]
		if !ok {
			return nil, fmt.Errorf("%w: no edge continues from landmark %d", types.ErrConfiguration, cur.To)
		}
		path = append(path, next)
		cur = next
	}
	return path, nil
}

// paths holds the six traversals, resolved once at process start. The index
// tables are compile-time constants, so a build failure here is a programming
// error rather than a runtime condition.
var paths = func() map[Region]Path {
	defs := map[Region][]int{
		LeftEye:    leftEyeIdx,
		RightEye:   rightEyeIdx,
		LeftCheek:  leftCheekIdx,
		RightCheek: rightCheekIdx,
		Lips:       lipsIdx,
		FaceOval:   faceOvalIdx,
	}
	m := make(map[Region]Path, len(defs))
	for r, idx := range defs {
		p, err := BuildPath(idx)
		if err != nil {
			panic(fmt.Sprintf("region %s: %v", r, err))
		}
		m[r] = p
	}
	return m
}()

// PathOf returns the cached closed traversal of a fixed region.
func PathOf(r Region) Path {
	return paths[r]
}

// AllRegions lists every fixed region in a stable order.
func AllRegions() []Region {
	return []Region{LeftEye, RightEye, LeftCheek, RightCheek, Lips, FaceOval}
}
