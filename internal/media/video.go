package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"time"

	"github.com/ivlev/annokit/internal/system"
)

// VideoSource extracts single frames by piping one PNG out of ffmpeg.
type VideoSource struct {
	Binary  string
	Timeout time.Duration
}

func NewVideoSource() *VideoSource {
	return &VideoSource{Binary: "ffmpeg", Timeout: 30 * time.Second}
}

func (v *VideoSource) LoadFrame(path string, frame int) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, v.binary(), v.buildArgs(path, frame)...)
	stdout := system.GetBuffer()
	defer system.PutBuffer(stdout)
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame %d of %s: %w, output: %s", frame, path, err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg frame %d of %s: no such frame", frame, path)
	}

	img, err := png.Decode(stdout)
	if err != nil {
		return nil, fmt.Errorf("decode frame %d of %s: %w", frame, path, err)
	}
	return img, nil
}

func (v *VideoSource) buildArgs(path string, frame int) []string {
	return []string{
		"-v", "error",
		"-i", path,
		"-vf", fmt.Sprintf(`select=eq(n\,%d)`, frame),
		"-vsync", "0",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "png",
		"-",
	}
}

func (v *VideoSource) binary() string {
	if v.Binary == "" {
		return "ffmpeg"
	}
	return v.Binary
}
