// Package media provides the video composition operations. All outputs use
// a fixed codec pair (libx264 video, aac audio) so the deliverable format
// is uniform regardless of input encoding.
package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mediaforge/composer-api/internal/engine"
)

// Fixed output encoding parameters.
const (
	frameRate    = 24
	videoCodec   = "libx264"
	audioCodec   = "aac"
	audioBitrate = "192k"
)

// Static errors for composition.
var (
	// ErrNoInputVideos is returned when concatenation is attempted with
	// zero clips.
	ErrNoInputVideos = errors.New("no input videos provided")
	// ErrInvalidDuration is returned when a clip duration is not positive.
	ErrInvalidDuration = errors.New("invalid duration: must be positive")
)

// Compositor builds video files from resolved local inputs. Each operation
// produces exactly one new output file, or fails atomically with no
// partial output left on disk.
type Compositor interface {
	// ComposeImage builds a fixed-duration silent video from a still image.
	ComposeImage(ctx context.Context, imagePath string, duration float64) (string, error)

	// ComposeImageAudio builds a video overlaying a still image for the
	// full span of the audio track. The audio's duration is authoritative.
	ComposeImageAudio(ctx context.Context, imagePath, audioPath string) (string, error)

	// Concatenate joins clips in list order, applying the given gain to
	// every clip's audio when gainDB is non-zero.
	Concatenate(ctx context.Context, videoPaths []string, gainDB float64) (string, error)
}

// FFmpegCompositor implements Compositor using the ffmpeg engine.
type FFmpegCompositor struct {
	run     *engine.Runner
	tempDir string
}

// NewFFmpegCompositor creates an FFmpegCompositor that writes composed
// files under tempDir. If tempDir is empty, os.TempDir() is used.
func NewFFmpegCompositor(run *engine.Runner, tempDir string) *FFmpegCompositor {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &FFmpegCompositor{run: run, tempDir: tempDir}
}

// ComposeImage implements Compositor.ComposeImage. The output has no
// audio track.
func (c *FFmpegCompositor) ComposeImage(ctx context.Context, imagePath string, duration float64) (string, error) {
	if duration <= 0 {
		return "", fmt.Errorf("%w: got %.2f", ErrInvalidDuration, duration)
	}

	outputPath := c.newOutputPath()

	args := []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-t", strconv.FormatFloat(duration, 'f', 3, 64),
		"-r", strconv.Itoa(frameRate),
		"-c:v", videoCodec,
		"-pix_fmt", "yuv420p",
		"-an",
		outputPath,
	}

	if err := c.run.Run(ctx, args...); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("compose image clip: %w", err)
	}

	return outputPath, nil
}

// ComposeImageAudio implements Compositor.ComposeImageAudio. The image is
// looped and the encode stops with the audio stream, so the output
// duration equals the audio duration.
func (c *FFmpegCompositor) ComposeImageAudio(ctx context.Context, imagePath, audioPath string) (string, error) {
	outputPath := c.newOutputPath()

	args := []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-i", audioPath,
		"-r", strconv.Itoa(frameRate),
		"-c:v", videoCodec,
		"-pix_fmt", "yuv420p",
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		"-shortest",
		outputPath,
	}

	if err := c.run.Run(ctx, args...); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("compose image+audio clip: %w", err)
	}

	return outputPath, nil
}

// Concatenate implements Compositor.Concatenate. Clips are always
// re-encoded so the deliverable format stays uniform across inputs of
// differing codecs.
func (c *FFmpegCompositor) Concatenate(ctx context.Context, videoPaths []string, gainDB float64) (string, error) {
	if len(videoPaths) == 0 {
		return "", ErrNoInputVideos
	}

	listFile, err := c.writeConcatList(videoPaths)
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	defer func() { _ = os.Remove(listFile) }()

	outputPath := c.newOutputPath()

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c:v", videoCodec,
		"-preset", "fast",
		"-crf", "23",
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
	}
	if gainDB != 0 {
		args = append(args, "-af", "volume="+formatGain(gainDB))
	}
	args = append(args, outputPath)

	if err := c.run.Run(ctx, args...); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("concatenate videos: %w", err)
	}

	return outputPath, nil
}

// writeConcatList writes the input list in the format required by
// ffmpeg's concat demuxer.
func (c *FFmpegCompositor) writeConcatList(videoPaths []string) (string, error) {
	f, err := os.CreateTemp(c.tempDir, "concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, p := range videoPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("get absolute path for %s: %w", p, err)
		}
		// Escape single quotes in path
		escapedPath := strings.ReplaceAll(absPath, "'", "'\\''")
		if _, err := fmt.Fprintf(f, "file '%s'\n", escapedPath); err != nil {
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write to concat list: %w", err)
		}
	}

	return f.Name(), nil
}

// newOutputPath returns a freshly named mp4 path under tempDir.
func (c *FFmpegCompositor) newOutputPath() string {
	return filepath.Join(c.tempDir, uuid.NewString()+".mp4")
}

// formatGain converts a decibel adjustment into the linear multiplier
// expected by ffmpeg's volume filter.
func formatGain(gainDB float64) string {
	factor := math.Pow(10, gainDB/20)
	return strconv.FormatFloat(factor, 'f', 6, 64)
}
