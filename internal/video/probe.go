package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/visagekit/visage/internal/types"
)

type ffprobeOutput struct {
	Streams []struct {
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		RFrameRate    string `json:"r_frame_rate"`
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
	} `json:"streams"`
}

func probe(ctx context.Context, path string, entries string, extra ...string) (*ffprobeOutput, error) {
	args := []string{"-v", "error", "-select_streams", "v:0"}
	args = append(args, extra...)
	args = append(args, "-show_entries", entries, "-of", "json", path)

	out, err := exec.CommandContext(ctx, "ffprobe", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe %s: %v", types.ErrResource, path, err)
	}
	var res ffprobeOutput
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, fmt.Errorf("%w: ffprobe output for %s: %v", types.ErrResource, path, err)
	}
	if len(res.Streams) == 0 {
		return nil, fmt.Errorf("%w: %s has no video stream", types.ErrResource, path)
	}
	return &res, nil
}

// Dimensions returns the pixel width and height of the first video stream.
func Dimensions(ctx context.Context, path string) (w, h int, err error) {
	res, err := probe(ctx, path, "stream=width,height")
	if err != nil {
		return 0, 0, err
	}
	w, h = res.Streams[0].Width, res.Streams[0].Height
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %s reports %dx%d dimensions", types.ErrResource, path, w, h)
	}
	return w, h, nil
}

// FPS returns the stream frame rate, parsed from ffprobe's rational form.
func FPS(ctx context.Context, path string) (float64, error) {
	res, err := probe(ctx, path, "stream=r_frame_rate")
	if err != nil {
		return 0, err
	}
	rate := res.Streams[0].RFrameRate
	parts := strings.SplitN(rate, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: frame rate %q of %s", types.ErrResource, rate, path)
	}
	den := 1.0
	if len(parts) == 2 {
		den, err = strconv.ParseFloat(parts[1], 64)
		if err != nil || den == 0 {
			return 0, fmt.Errorf("%w: frame rate %q of %s", types.ErrResource, rate, path)
		}
	}
	fps := num / den
	if fps <= 0 {
		return 0, fmt.Errorf("%w: frame rate %q of %s", types.ErrResource, rate, path)
	}
	return fps, nil
}

// TotalFrames estimates the frame count for progress reporting. It tries the
// container metadata first and falls back to counting packets; 0 means
// unknown, letting callers fall back to a spinner.
func TotalFrames(ctx context.Context, path string) int {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0
	}

	if res, err := probe(ctx, path, "stream=nb_frames"); err == nil {
		if count, err := strconv.Atoi(res.Streams[0].NbFrames); err == nil && count > 0 {
			return count
		}
	}

	fmt.Fprintf(os.Stderr, "⏳ Metadata missing. Counting frames (this may take a moment)...\n")
	res, err := probe(ctx, path, "stream=nb_read_packets", "-count_packets")
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(res.Streams[0].NbReadPackets)
	if err != nil {
		return 0
	}
	return count
}
