package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mitchellh/colorstring"

	"github.com/visagekit/visage/internal/types"
)

// SafeCommand wraps exec.Cmd with a buffer catching stderr, so crash output
// from ffmpeg or the landmark worker is not lost when a process dies.
type SafeCommand struct {
	*exec.Cmd
	Stderr *bytes.Buffer
}

// NewSafeCommand prepares a command with its stderr captured. It does not
// start the process.
func NewSafeCommand(name string, args ...string) *SafeCommand {
	cmd := exec.Command(name, args...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	return &SafeCommand{Cmd: cmd, Stderr: stderr}
}

// Wrap attaches stderr capture to an externally built command, unless the
// caller already routed stderr elsewhere.
func Wrap(cmd *exec.Cmd) *SafeCommand {
	stderr := &bytes.Buffer{}
	if cmd.Stderr == nil {
		cmd.Stderr = stderr
	}
	return &SafeCommand{Cmd: cmd, Stderr: stderr}
}

// ShowError prints a formatted error box to stderr and dumps any captured
// subprocess logs. Unlike Die it returns, leaving exit policy to the caller.
func ShowError(context string, err error, s *SafeCommand) {
	fmt.Fprintf(os.Stderr, "\n---------------------------------------------------------\n")
	colorstring.Fprintf(os.Stderr, "[red]🚨 VISAGE ERROR:[reset] %s\n", context)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DETAILS: %v\n", err)
	}
	if s != nil && s.Stderr.Len() > 0 {
		fmt.Fprintf(os.Stderr, "\nSUBPROCESS LOGS:\n%s\n", s.Stderr.String())
	}
	fmt.Fprintf(os.Stderr, "---------------------------------------------------------\n")
}

// GenerateVideoID creates a deterministic hash for a video file based on its
// path, size and modification time.
func GenerateVideoID(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	input := fmt.Sprintf("%s-%d-%d", path, info.Size(), info.ModTime().UnixNano())
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:]), nil
}

// videoExtensions are the containers the pipeline will try to decode.
var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
}

// ListVideoFiles collects the video files under dir. With recurse it walks
// subdirectories; otherwise only direct children are considered. A missing
// or unreadable directory is a resource error surfaced before processing.
func ListVideoFiles(dir string, recurse bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: input directory %s: %v", types.ErrResource, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: input path %s is not a directory", types.ErrResource, dir)
	}

	var files []string
	if recurse {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && videoExtensions[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
	} else {
		var entries []fs.DirEntry
		entries, err = os.ReadDir(dir)
		if err == nil {
			for _, e := range entries {
				if !e.IsDir() && videoExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
					files = append(files, filepath.Join(dir, e.Name()))
				}
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", types.ErrResource, dir, err)
	}
	return files, nil
}

// EnsureDir creates a directory if it does not exist yet.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", types.ErrResource, path, err)
	}
	return nil
}
