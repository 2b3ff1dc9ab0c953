package colorspace

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/visagekit/visage/internal/types"
)

// SampleWriter appends color samples to a CSV file, one row per processed
// frame, with the fixed header of the active color space and 5-decimal
// formatting throughout.
type SampleWriter struct {
	f      *os.File
	w      *bufio.Writer
	space  Space
	closed bool
}

// NewSampleWriter creates (or truncates) the CSV file and writes its header.
func NewSampleWriter(path string, space Space) (*SampleWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create csv %s: %v", types.ErrResource, path, err)
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString(space.Header() + "\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: write csv header: %v", types.ErrResource, err)
	}
	return &SampleWriter{f: f, w: w, space: space}, nil
}

// Write appends one sample row. Empty-mask samples are written as-is: their
// NaN channels make the undefined mean visible instead of faking a zero.
func (sw *SampleWriter) Write(s Sample) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%.5f", s.Timestamp)
	for _, c := range s.Channels {
		fmt.Fprintf(&b, ",%.5f", c)
	}
	b.WriteByte('\n')
	if _, err := sw.w.WriteString(b.String()); err != nil {
		return fmt.Errorf("%w: write csv row: %v", types.ErrResource, err)
	}
	return nil
}

// Close flushes and closes the underlying file. Safe to call twice.
func (sw *SampleWriter) Close() error {
	if sw.closed {
		return nil
	}
	sw.closed = true
	if err := sw.w.Flush(); err != nil {
		sw.f.Close()
		return err
	}
	return sw.f.Close()
}
