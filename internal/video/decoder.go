package video

import (
	"context"
	"fmt"
	"image"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/visagekit/visage/internal/types"
	"github.com/visagekit/visage/internal/utils"
)

// Decoder pulls raw RGBA frames from a video file through an ffmpeg pipe.
// Frames are produced strictly in presentation order.
type Decoder struct {
	Width  int
	Height int
	FPS    float64

	cmd   *utils.SafeCommand
	out   io.ReadCloser
	frame int
}

// NewDecoder probes the source and starts the ffmpeg process. The returned
// decoder must be closed on every path, success or failure.
func NewDecoder(ctx context.Context, path string) (*Decoder, error) {
	w, h, err := Dimensions(ctx, path)
	if err != nil {
		return nil, err
	}
	fps, err := FPS(ctx, path)
	if err != nil {
		return nil, err
	}

	stream := ffmpeg.Input(path).
		Output("pipe:1", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgba",
		})
	stream.Context = ctx
	cmd := utils.Wrap(stream.Compile())

	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: decoder pipe for %s: %v", types.ErrResource, path, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start decoder for %s: %v", types.ErrResource, path, err)
	}

	return &Decoder{Width: w, Height: h, FPS: fps, cmd: cmd, out: out}, nil
}

// FrameSize returns the byte length of one raw RGBA frame.
func (d *Decoder) FrameSize() int {
	return d.Width * d.Height * 4
}

// ReadFrame fills buf with the next frame and wraps it zero-copy in an
// image.RGBA. io.EOF signals a clean end of stream; any short read mid-frame
// is a resource error.
func (d *Decoder) ReadFrame(buf []byte) (*image.RGBA, error) {
	if len(buf) != d.FrameSize() {
		return nil, fmt.Errorf("%w: frame buffer is %d bytes, want %d", types.ErrResource, len(buf), d.FrameSize())
	}
	if _, err := io.ReadFull(d.out, buf); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: reading frame %d: %v", types.ErrResource, d.frame, err)
	}
	d.frame++
	return &image.RGBA{
		Pix:    buf,
		Stride: d.Width * 4,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}, nil
}

// Timestamp returns the presentation time in seconds of the most recently
// read frame (playback position in milliseconds over 1000).
func (d *Decoder) Timestamp() float64 {
	return float64(d.frame-1) * 1000.0 / d.FPS / 1000.0
}

// Close releases the pipe and reaps the ffmpeg process.
func (d *Decoder) Close() error {
	d.out.Close()
	return d.cmd.Wait()
}

// StderrTail exposes captured ffmpeg logs for error reporting.
func (d *Decoder) StderrTail() *utils.SafeCommand {
	return d.cmd
}
