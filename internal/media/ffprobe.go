package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// FFProbe shells out to ffprobe and feeds the stream on stdin.
type FFProbe struct {
	Path string
}

// NewFFProbe returns a prober using path, or "ffprobe" from PATH.
func NewFFProbe(path string) *FFProbe {
	if path == "" {
		path = "ffprobe"
	}
	return &FFProbe{Path: path}
}

// Available checks if ffprobe is executable.
func (f *FFProbe) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

func (f *FFProbe) Probe(ctx context.Context, r io.ReadSeeker) (float64, error) {
	// ffprobe -v error -show_entries format=duration -of default=noprint_wrappers=1:nokey=1 -i pipe:0
	cmd := exec.CommandContext(ctx, f.Path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", "pipe:0",
	)
	cmd.Stdin = r
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseFFProbeDuration(stdout.String())
}

func parseFFProbeDuration(out string) (float64, error) {
	out = strings.TrimSpace(out)
	if out == "" || out == "N/A" {
		return 0, ErrNoDuration
	}
	seconds, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parse duration %q: %w", out, err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, ErrNoDuration
	}
	return seconds, nil
}
