package utils

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/visagekit/visage/internal/types"
)

func TestGenerateVideoID(t *testing.T) {
	// Integration test using the OS filesystem
	tmp, err := os.CreateTemp("", "video_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmp.Name())

	// Write dummy content
	if _, err := tmp.Write([]byte("fake video content")); err != nil {
		t.Fatal(err)
	}
	tmp.Close()

	id, err := GenerateVideoID(tmp.Name())
	if err != nil || id == "" {
		t.Errorf("Failed to generate ID: %v", err)
	}

	// Verify Determinism
	id2, _ := GenerateVideoID(tmp.Name())
	if id != id2 {
		t.Errorf("Hash is not deterministic. Got %s, then %s", id, id2)
	}

	// Verify Sensitivity (Change content -> Change ID)
	f, _ := os.OpenFile(tmp.Name(), os.O_APPEND|os.O_WRONLY, 0644)
	f.Write([]byte(" modification"))
	f.Close()

	id3, _ := GenerateVideoID(tmp.Name())
	if id == id3 {
		t.Error("Hash did not change after file modification")
	}
}

func TestListVideoFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.mp4", "b.MOV", "notes.txt", "nested/c.mkv", "nested/d.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	flat, err := ListVideoFiles(dir, false)
	if err != nil {
		t.Fatalf("ListVideoFiles failed: %v", err)
	}
	if got := baseNames(flat); len(got) != 2 || got[0] != "a.mp4" || got[1] != "b.MOV" {
		t.Errorf("flat listing = %v, want [a.mp4 b.MOV]", got)
	}

	deep, err := ListVideoFiles(dir, true)
	if err != nil {
		t.Fatalf("ListVideoFiles recursive failed: %v", err)
	}
	if got := baseNames(deep); len(got) != 3 || got[2] != "c.mkv" {
		t.Errorf("recursive listing = %v, want [a.mp4 b.MOV c.mkv]", got)
	}
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	sort.Strings(out)
	return out
}

func TestListVideoFilesErrors(t *testing.T) {
	if _, err := ListVideoFiles(filepath.Join(t.TempDir(), "absent"), false); !errors.Is(err, types.ErrResource) {
		t.Errorf("missing dir: expected resource error, got %v", err)
	}

	file := filepath.Join(t.TempDir(), "plain.mp4")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ListVideoFiles(file, false); !errors.Is(err, types.ErrResource) {
		t.Errorf("file input: expected resource error, got %v", err)
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deep")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	// Idempotent on an existing directory.
	if err := EnsureDir(path); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}
