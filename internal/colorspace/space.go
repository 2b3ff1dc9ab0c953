package colorspace

import (
	"fmt"
	"strings"

	"github.com/visagekit/visage/internal/types"
)

// Space selects the channel representation used for statistical extraction.
type Space int

const (
	RGB Space = iota
	HSV
	Grayscale
)

// ParseSpace normalizes a user-supplied color space name. Called once at
// configuration time, never per frame.
func ParseSpace(s string) (Space, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb":
		return RGB, nil
	case "hsv":
		return HSV, nil
	case "grayscale", "gray", "grey":
		return Grayscale, nil
	}
	return 0, fmt.Errorf("%w: color space %q (want rgb, hsv or grayscale)", types.ErrConfiguration, s)
}

func (s Space) String() string {
	switch s {
	case RGB:
		return "RGB"
	case HSV:
		return "HSV"
	case Grayscale:
		return "GRAYSCALE"
	}
	return fmt.Sprintf("Space(%d)", int(s))
}

// Channels returns the channel count of the space.
func (s Space) Channels() int {
	if s == Grayscale {
		return 1
	}
	return 3
}

// Header returns the fixed CSV header row of the space.
func (s Space) Header() string {
	switch s {
	case HSV:
		return "Timestamp,Hue,Saturation,Value"
	case Grayscale:
		return "Timestamp,Value"
	default:
		return "Timestamp,Red,Green,Blue"
	}
}

// Channel is an RGB focus channel for extremum tracking.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// ParseChannel normalizes a case-insensitive channel name to the enum.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "green", "g":
		return Green, nil
	case "blue", "b":
		return Blue, nil
	}
	return 0, fmt.Errorf("%w: focus channel %q (want red, green or blue)", types.ErrConfiguration, s)
}

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// Color is one full RGB pixel value.
type Color struct {
	R, G, B uint8
}

// Channel extracts the focus channel's value from a color.
func (c Color) Channel(ch Channel) uint8 {
	switch ch {
	case Red:
		return c.R
	case Green:
		return c.G
	}
	return c.B
}
