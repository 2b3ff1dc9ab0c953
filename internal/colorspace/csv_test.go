package colorspace

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/visagekit/visage/internal/types"
)

func TestSampleWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sw, err := NewSampleWriter(path, RGB)
	if err != nil {
		t.Fatalf("NewSampleWriter failed: %v", err)
	}

	samples := []Sample{
		{Timestamp: 0, Channels: []float64{1, 2, 3}},
		{Timestamp: 0.0333, Channels: []float64{120.5, 64.25, 200}},
	}
	for _, s := range samples {
		if err := sw.Write(s); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := sw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := sw.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Timestamp,Red,Green,Blue\n" +
		"0.00000,1.00000,2.00000,3.00000\n" +
		"0.03330,120.50000,64.25000,200.00000\n"
	if string(data) != want {
		t.Errorf("csv content:\n%q\nwant:\n%q", data, want)
	}
}

func TestSampleWriterHeaders(t *testing.T) {
	cases := []struct {
		space  Space
		header string
	}{
		{RGB, "Timestamp,Red,Green,Blue"},
		{HSV, "Timestamp,Hue,Saturation,Value"},
		{Grayscale, "Timestamp,Value"},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "out.csv")
		sw, err := NewSampleWriter(path, tc.space)
		if err != nil {
			t.Fatalf("%v: NewSampleWriter failed: %v", tc.space, err)
		}
		if err := sw.Close(); err != nil {
			t.Fatalf("%v: Close failed: %v", tc.space, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != tc.header+"\n" {
			t.Errorf("%v: header %q, want %q", tc.space, data, tc.header+"\n")
		}
	}
}

func TestSampleWriterEmptySample(t *testing.T) {
	// Empty-mask samples keep their row: the timestamp is real, the NaN
	// channels make the undefined mean visible.
	path := filepath.Join(t.TempDir(), "out.csv")
	sw, err := NewSampleWriter(path, Grayscale)
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Write(Sample{Timestamp: 1, Channels: []float64{math.NaN()}, Empty: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sw.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Timestamp,Value\n1.00000,NaN\n"
	if string(data) != want {
		t.Errorf("csv content %q, want %q", data, want)
	}
}

func TestSampleWriterBadPath(t *testing.T) {
	_, err := NewSampleWriter(filepath.Join(t.TempDir(), "missing", "out.csv"), RGB)
	if err == nil {
		t.Fatal("expected error for unreachable path")
	}
	if !errors.Is(err, types.ErrResource) {
		t.Errorf("expected resource error, got %v", err)
	}
}
