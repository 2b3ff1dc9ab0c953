package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/visagekit/visage/internal/colorspace"
	"github.com/visagekit/visage/internal/types"
)

func TestParseFilterColor(t *testing.T) {
	cases := []struct {
		input string
		want  colorspace.Color
	}{
		{"red", colorspace.Color{R: 255}},
		{"GREEN", colorspace.Color{G: 255}},
		{" blue ", colorspace.Color{B: 255}},
	}
	for _, tc := range cases {
		got, err := parseFilterColor(tc.input)
		if err != nil {
			t.Errorf("parseFilterColor(%q) failed: %v", tc.input, err)
		} else if got != tc.want {
			t.Errorf("parseFilterColor(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}

	_, err := parseFilterColor("magenta")
	if err == nil {
		t.Fatal("expected error for non-primary color")
	}
	if !errors.Is(err, types.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestVideoStem(t *testing.T) {
	cases := map[string]string{
		"/videos/clip.mp4":     "clip",
		"clip.MOV":             "clip",
		"/a/b/no_extension":    "no_extension",
		"/videos/two.dots.mkv": "two.dots",
	}
	for input, want := range cases {
		if got := videoStem(input); got != want {
			t.Errorf("videoStem(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestResolveInputs(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "a.mp4")
	if err := os.WriteFile(video, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	files, base, err := resolveInputs(video, false)
	if err != nil {
		t.Fatalf("resolveInputs(file) failed: %v", err)
	}
	if len(files) != 1 || files[0] != video || base != dir {
		t.Errorf("file input: got %v base %q", files, base)
	}

	files, base, err = resolveInputs(dir, false)
	if err != nil {
		t.Fatalf("resolveInputs(dir) failed: %v", err)
	}
	if len(files) != 1 || base != dir {
		t.Errorf("dir input: got %v base %q", files, base)
	}

	if _, _, err := resolveInputs(filepath.Join(dir, "absent"), false); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestMeanOfSamples(t *testing.T) {
	samples := []colorspace.Sample{
		{Channels: []float64{10, 20, 30}},
		{Channels: []float64{30, 40, 50}},
		{Empty: true, Channels: []float64{0, 0, 0}},
	}
	mean := meanOfSamples(samples)
	want := []float64{20, 30, 40}
	for i := range want {
		if mean[i] != want[i] {
			t.Errorf("channel %d = %v, want %v", i, mean[i], want[i])
		}
	}

	if meanOfSamples([]colorspace.Sample{{Empty: true, Channels: []float64{1}}}) != nil {
		t.Error("all-empty samples must yield nil mean")
	}
}
