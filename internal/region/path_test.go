package region

import (
	"errors"
	"testing"

	"github.com/visagekit/visage/internal/types"
)

func TestBuildPathClosedChain(t *testing.T) {
	// Every fixed region must resolve to a closed chain: each edge starts
	// where the previous one ended, and the last edge returns to the first.
	for _, r := range AllRegions() {
		p := PathOf(r)
		if len(p) == 0 {
			t.Fatalf("%s: empty path", r)
		}
		for i := 0; i < len(p)-1; i++ {
			if p[i].To != p[i+1].From {
				t.Errorf("%s: edge %d ends at %d but edge %d starts at %d", r, i, p[i].To, i+1, p[i+1].From)
			}
		}
		if p[len(p)-1].To != p[0].From {
			t.Errorf("%s: chain does not close (%d -> %d)", r, p[len(p)-1].To, p[0].From)
		}
	}
}

func TestBuildPathEdgeCount(t *testing.T) {
	// A closed cycle of N indices (first == last) has N-1 edges.
	cases := []struct {
		region  Region
		indices []int
	}{
		{LeftEye, leftEyeIdx},
		{RightEye, rightEyeIdx},
		{LeftCheek, leftCheekIdx},
		{RightCheek, rightCheekIdx},
		{Lips, lipsIdx},
		{FaceOval, faceOvalIdx},
	}
	for _, tc := range cases {
		if got, want := len(PathOf(tc.region)), len(tc.indices)-1; got != want {
			t.Errorf("%s: got %d edges, want %d", tc.region, got, want)
		}
	}
}

func TestBuildPathErrors(t *testing.T) {
	cases := []struct {
		name    string
		indices []int
	}{
		{"too short", []int{1, 2, 1}},
		{"index out of range", []int{1, 2, 478, 1}},
		{"negative index", []int{1, -1, 2, 1}},
		{"duplicate source", []int{1, 2, 1, 3, 1}},
		{"broken chain", []int{1, 2, 3, 4, 9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPath(tc.indices)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, types.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestBuildPathReordersShuffledCycle(t *testing.T) {
	// The chain is rebuilt by following successors, so the emitted order
	// depends only on connectivity, not on input order past the first edge.
	p, err := BuildPath([]int{1, 2, 3, 4, 1})
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}
	want := Path{{2, 3}, {3, 4}, {4, 1}, {1, 2}}
	if len(p) != len(want) {
		t.Fatalf("got %d edges, want %d", len(p), len(want))
	}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("edge %d: got %v, want %v", i, p[i], want[i])
		}
	}
}
