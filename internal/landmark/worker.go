// Package landmark adapts the external face-mesh detector: a MediaPipe
// worker process fed raw frames over stdin, answering on a dedicated FD-3
// pipe so its stdout stays free for library noise.
package landmark

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"

	"github.com/visagekit/visage/internal/utils"
)

// MeshPoints is the landmark count of the detector contract. Responses
// carry either exactly this many points or none at all.
const MeshPoints = 478

// DefaultScript is the bundled worker entrypoint; VISAGE_LANDMARKER
// overrides it.
const DefaultScript = "python/landmarker.py"

// Config fixes the frame geometry for the worker's lifetime. One worker
// serves one video.
type Config struct {
	Width  int
	Height int
	Script string
}

// Worker is a running detector process.
type Worker struct {
	ID       int
	Cmd      *utils.SafeCommand
	Stdin    io.WriteCloser
	DataPipe io.ReadCloser

	width, height int
}

// NewWorker launches the detector. The context kills the process tree when
// the surrounding video run is cancelled.
func NewWorker(ctx context.Context, id int, cfg Config) (*Worker, error) {
	script := cfg.Script
	if script == "" {
		script = DefaultScript
	}
	if env := os.Getenv("VISAGE_LANDMARKER"); env != "" {
		script = env
	}

	cmd := exec.CommandContext(ctx, "python3", "-u", script,
		"--width", strconv.Itoa(cfg.Width),
		"--height", strconv.Itoa(cfg.Height))
	py := utils.Wrap(cmd)

	// Side-channel pipe: appears as FD 3 in the child.
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	py.Cmd.ExtraFiles = []*os.File{w}

	stdin, err := py.StdinPipe()
	if err != nil {
		w.Close()
		r.Close()
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	if err := py.Start(); err != nil {
		w.Close()
		r.Close()
		return nil, fmt.Errorf("worker %d failed to start: %w", id, err)
	}

	// Only the child may hold the write end now.
	w.Close()

	return &Worker{
		ID:       id,
		Cmd:      py,
		Stdin:    stdin,
		DataPipe: r,
		width:    cfg.Width,
		height:   cfg.Height,
	}, nil
}

// Detect sends one raw RGBA frame and returns the detected face's landmark
// pixel coordinates, indexed by landmark id. A nil slice with a nil error
// means no face was found in the frame — a defined skip condition, not a
// failure. Normalized coordinates are scaled by the frame dimensions and
// truncated to integers.
func (w *Worker) Detect(frame []byte) ([]image.Point, error) {
	if err := binary.Write(w.Stdin, binary.BigEndian, uint32(len(frame))); err != nil {
		return nil, err
	}
	if _, err := w.Stdin.Write(frame); err != nil {
		return nil, err
	}

	header := make([]byte, 4)
	if _, err := io.ReadFull(w.DataPipe, header); err != nil {
		return nil, err // catches worker startup crashes too
	}
	respLen := binary.BigEndian.Uint32(header)
	body := make([]byte, respLen)
	if _, err := io.ReadFull(w.DataPipe, body); err != nil {
		return nil, err
	}

	return w.parseResponse(body)
}

func (w *Worker) parseResponse(body []byte) ([]image.Point, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("worker %d sent empty response", w.ID)
	}
	status, body := body[0], body[1:]

	if status != 0 {
		if len(body) < 4 {
			return nil, fmt.Errorf("worker %d sent malformed error", w.ID)
		}
		msgLen := binary.BigEndian.Uint32(body[:4])
		if int(msgLen) > len(body)-4 {
			return nil, fmt.Errorf("worker %d sent truncated error", w.ID)
		}
		return nil, fmt.Errorf("landmark worker error: %s", string(body[4:4+msgLen]))
	}

	if len(body) < 4 {
		return nil, fmt.Errorf("worker %d sent malformed response", w.ID)
	}
	count := int(binary.BigEndian.Uint32(body[:4]))
	body = body[4:]

	if count == 0 {
		return nil, nil // no face in this frame
	}
	if count != MeshPoints {
		return nil, fmt.Errorf("worker %d sent %d landmarks, contract is %d", w.ID, count, MeshPoints)
	}
	if len(body) < count*8 {
		return nil, fmt.Errorf("worker %d sent truncated landmark data", w.ID)
	}

	points := make([]image.Point, count)
	for i := 0; i < count; i++ {
		x := math.Float32frombits(binary.BigEndian.Uint32(body[i*8:]))
		y := math.Float32frombits(binary.BigEndian.Uint32(body[i*8+4:]))
		points[i] = image.Point{
			X: int(float64(x) * float64(w.width)),
			Y: int(float64(y) * float64(w.height)),
		}
	}
	return points, nil
}

// Close shuts the pipes and reaps the process.
func (w *Worker) Close() {
	w.Stdin.Close()
	w.DataPipe.Close()
	w.Cmd.Wait()
}
