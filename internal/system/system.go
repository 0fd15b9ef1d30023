// Package system probes the host: CPU count for batch workers and ffprobe
// for video frame counts.
package system

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultWorkers returns the number of logical CPUs, or 1 if it cannot be
// determined.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}
	if n <= 0 {
		return 1
	}
	return n
}

// Workers clamps a configured worker count to [1, jobs]. Zero selects
// DefaultWorkers.
func Workers(configured, jobs int) int {
	n := configured
	if n <= 0 {
		n = DefaultWorkers()
	}
	if jobs > 0 && n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Prober runs ffprobe.
type Prober struct {
	Binary  string
	Timeout time.Duration
}

// NewProber returns a Prober using the ffprobe found on PATH.
func NewProber() *Prober {
	return &Prober{Binary: "ffprobe", Timeout: 30 * time.Second}
}

// Available reports whether the ffprobe binary can be found.
func (p *Prober) Available() bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

// FrameCount returns the number of video frames in path, counting packets
// when the container does not store a frame count.
func (p *Prober) FrameCount(ctx context.Context, path string) (int, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.binary(),
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w, output: %s", path, err, strings.TrimSpace(string(out)))
	}
	return parseFrameCount(string(out))
}

func parseFrameCount(out string) (int, error) {
	s := strings.TrimSpace(out)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("ffprobe frame count %q: %w", s, err)
	}
	return n, nil
}

func (p *Prober) binary() string {
	if p.Binary == "" {
		return "ffprobe"
	}
	return p.Binary
}
