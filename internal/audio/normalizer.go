// Package audio provides audio normalization for the composition pipeline.
// All audio is converted to a canonical form (44.1 kHz, 2-channel, 16-bit
// linear PCM) before it is attached to video.
package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/mediaforge/composer-api/internal/engine"
)

// Canonical output format.
const (
	sampleRate = 44100
	channels   = 2
)

// ErrGainOutOfRange is returned when the gain adjustment is outside the
// accepted [-20, 20] dB range.
var ErrGainOutOfRange = errors.New("gain adjustment must be between -20 and 20 dB")

// Normalizer converts audio to the canonical PCM form and applies a gain
// adjustment. The returned path is always a newly created file owned by
// the caller.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath string, gainDB float64) (string, error)
}

// FFmpegNormalizer implements Normalizer using the ffmpeg engine.
type FFmpegNormalizer struct {
	run     *engine.Runner
	tempDir string
}

// NewFFmpegNormalizer creates an FFmpegNormalizer that writes normalized
// files under tempDir. If tempDir is empty, os.TempDir() is used.
func NewFFmpegNormalizer(run *engine.Runner, tempDir string) *FFmpegNormalizer {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &FFmpegNormalizer{run: run, tempDir: tempDir}
}

// Normalize resamples inputPath to 44.1 kHz stereo 16-bit PCM and applies
// the linear gain factor 10^(gainDB/20) via the engine's volume filter.
// On engine failure the partial output is removed before the error is
// returned; no partial file leaks to the caller.
func (n *FFmpegNormalizer) Normalize(ctx context.Context, inputPath string, gainDB float64) (string, error) {
	if gainDB < -20 || gainDB > 20 {
		return "", fmt.Errorf("%w: got %.2f", ErrGainOutOfRange, gainDB)
	}

	outputPath := filepath.Join(n.tempDir, uuid.NewString()+".wav")

	args := []string{
		"-y",
		"-i", inputPath,
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-af", "volume=" + formatGain(gainDB),
		outputPath,
	}

	if err := n.run.Run(ctx, args...); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("normalize audio: %w", err)
	}

	return outputPath, nil
}

// formatGain converts a decibel adjustment into the linear multiplier
// expected by ffmpeg's volume filter.
func formatGain(gainDB float64) string {
	factor := math.Pow(10, gainDB/20)
	return strconv.FormatFloat(factor, 'f', 6, 64)
}
