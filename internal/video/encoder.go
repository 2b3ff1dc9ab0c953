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

// Encoder pushes raw RGBA frames into an ffmpeg process writing an H.264
// mp4. Frame dimensions are fixed for the encoder's lifetime.
type Encoder struct {
	Width  int
	Height int

	cmd *utils.SafeCommand
	in  io.WriteCloser
}

// NewEncoder starts the ffmpeg encode process for the given output path.
func NewEncoder(ctx context.Context, path string, w, h int, fps float64) (*Encoder, error) {
	stream := ffmpeg.Input("pipe:0", ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", w, h),
		"framerate": fmt.Sprintf("%f", fps),
	}).
		Output(path, ffmpeg.KwArgs{
			"vcodec":  "libx264",
			"pix_fmt": "yuv420p",
		}).
		OverWriteOutput()
	stream.Context = ctx
	cmd := utils.Wrap(stream.Compile())

	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: encoder pipe for %s: %v", types.ErrResource, path, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start encoder for %s: %v", types.ErrResource, path, err)
	}

	return &Encoder{Width: w, Height: h, cmd: cmd, in: in}, nil
}

// WriteFrame pushes one frame. The frame must match the encoder dimensions.
func (e *Encoder) WriteFrame(frame *image.RGBA) error {
	b := frame.Bounds()
	if b.Dx() != e.Width || b.Dy() != e.Height {
		return fmt.Errorf("%w: frame is %dx%d, encoder expects %dx%d", types.ErrResource, b.Dx(), b.Dy(), e.Width, e.Height)
	}
	if _, err := e.in.Write(frame.Pix); err != nil {
		return fmt.Errorf("%w: writing encoded frame: %v", types.ErrResource, err)
	}
	return nil
}

// Close finishes the stream and waits for ffmpeg to flush the container.
func (e *Encoder) Close() error {
	e.in.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("%w: encoder exited: %v", types.ErrResource, err)
	}
	return nil
}

// StderrTail exposes captured ffmpeg logs for error reporting.
func (e *Encoder) StderrTail() *utils.SafeCommand {
	return e.cmd
}
