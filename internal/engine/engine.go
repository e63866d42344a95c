// Package engine wraps invocation of the external ffmpeg/ffprobe binaries.
// All invocations use ordered argument lists with no shell interpolation,
// and capture stderr so failures carry the engine's diagnostic output.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner executes ffmpeg and ffprobe commands.
type Runner struct {
	ffmpegPath  string
	ffprobePath string
}

// NewRunner creates a Runner. Empty paths default to "ffmpeg" and
// "ffprobe" resolved via PATH.
func NewRunner(ffmpegPath, ffprobePath string) *Runner {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Runner{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Run executes ffmpeg with the given arguments. A non-zero exit status is
// returned as an *Error carrying the captured stderr.
func (r *Runner) Run(ctx context.Context, args ...string) error {
	// #nosec G204 - ffmpegPath is set by the application, args are built
	// from typed argument lists, never from shell strings
	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &Error{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// Probe executes ffprobe with the given arguments and returns its stdout.
func (r *Runner) Probe(ctx context.Context, args ...string) ([]byte, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, r.ffprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return nil, &Error{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return stdout.Bytes(), nil
}

// Error represents a failed engine invocation, including stderr output.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *Error) Unwrap() error {
	return e.Err
}
