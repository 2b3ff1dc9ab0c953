package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/visagekit/visage/internal/colorspace"
	"github.com/visagekit/visage/internal/landmark"
	"github.com/visagekit/visage/internal/utils"
	"github.com/visagekit/visage/internal/video"
)

// Result summarizes one video run.
type Result struct {
	FramesRead int
	FramesOut  int
	Skipped    int
	// Samples holds the per-frame color samples when extraction is on,
	// in frame order, for downstream persistence.
	Samples []colorspace.Sample
}

// Run streams one video through the processor: decode, detect landmarks,
// process, encode, optionally sample. Frames with no detected face are
// consumed but emit neither an output frame nor a sample row; the output
// stream is therefore shorter than the input when the detector loses the
// face. All per-video resources are released on every return path.
func Run(ctx context.Context, log *slog.Logger, inputPath, outputPath string, proc *Processor, csv *colorspace.SampleWriter) (*Result, error) {
	dec, err := video.NewDecoder(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	enc, err := video.NewEncoder(ctx, outputPath, dec.Width, dec.Height, dec.FPS)
	if err != nil {
		return nil, err
	}
	encClosed := false
	defer func() {
		if !encClosed {
			enc.Close()
		}
	}()

	worker, err := landmark.NewWorker(ctx, 0, landmark.Config{Width: dec.Width, Height: dec.Height})
	if err != nil {
		return nil, err
	}
	defer worker.Close()

	bar := newBar(ctx, inputPath, "Masking")
	defer bar.Finish()

	res := &Result{}
	buf := make([]byte, dec.FrameSize())
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := dec.ReadFrame(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logStderr(log, "decoder", dec.StderrTail())
			return nil, err
		}
		res.FramesRead++
		bar.Add(1)

		points, err := worker.Detect(buf)
		if err != nil {
			return nil, err
		}
		if points == nil {
			// No face: the frame is consumed but nothing is emitted.
			res.Skipped++
			log.Debug("no face detected", "frame", res.FramesRead-1, "video", inputPath)
			continue
		}

		out, sample, err := proc.ProcessFrame(frame, points, dec.Timestamp())
		if err != nil {
			return nil, err
		}
		if err := enc.WriteFrame(out); err != nil {
			logStderr(log, "encoder", enc.StderrTail())
			return nil, err
		}
		res.FramesOut++

		if sample != nil {
			if csv != nil {
				if err := csv.Write(*sample); err != nil {
					return nil, err
				}
			}
			res.Samples = append(res.Samples, *sample)
		}
	}

	encClosed = true
	if err := enc.Close(); err != nil {
		logStderr(log, "encoder", enc.StderrTail())
		return nil, err
	}
	return res, nil
}

// logStderr surfaces an ffmpeg process's captured stderr when it dies
// mid-stream; the pipe error alone rarely says why.
func logStderr(log *slog.Logger, role string, cmd *utils.SafeCommand) {
	if cmd != nil && cmd.Stderr.Len() > 0 {
		log.Error("ffmpeg output", "role", role, "stderr", cmd.Stderr.String())
	}
}

// RunExtremum scans a video once with the single-channel extremum tracker.
// No landmarks or masks are involved; every pixel of every frame counts.
func RunExtremum(ctx context.Context, inputPath string, focus colorspace.Channel) (colorspace.Extrema, error) {
	var zero colorspace.Extrema

	dec, err := video.NewDecoder(ctx, inputPath)
	if err != nil {
		return zero, err
	}
	defer dec.Close()

	bar := newBar(ctx, inputPath, "Scanning")
	defer bar.Finish()

	tracker := colorspace.NewTracker(focus)
	buf := make([]byte, dec.FrameSize())
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		frame, err := dec.ReadFrame(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return zero, err
		}
		tracker.Observe(frame)
		bar.Add(1)
	}

	return tracker.Result(), nil
}

func newBar(ctx context.Context, inputPath, description string) *progressbar.ProgressBar {
	total := video.TotalFrames(ctx, inputPath)
	if total <= 0 {
		total = -1 // spinner mode
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
}
