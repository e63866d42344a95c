// Package compose orchestrates the media composition pipeline: resolving
// input references, normalizing audio, composing video through the
// external engine, probing metadata, and publishing the finished artifact.
// It owns every temporary file created during a request and guarantees
// cleanup on all exit paths.
package compose

import (
	"github.com/mediaforge/composer-api/internal/asset"
)

// ImageToVideoRequest builds a fixed-duration silent video from a single
// still image.
type ImageToVideoRequest struct {
	Image    asset.Reference
	Duration float64 // seconds, must be positive
}

// ImageAudioToVideoRequest builds a video overlaying a still image for the
// full duration of the supplied audio track.
type ImageAudioToVideoRequest struct {
	Image  asset.Reference
	Audio  asset.Reference
	GainDB float64 // decibel adjustment in [-20, 20]
}

// ConcatenateRequest joins videos in order with an optional gain
// adjustment applied to every clip's audio.
type ConcatenateRequest struct {
	Videos []asset.Reference // must be non-empty
	GainDB float64           // decibel adjustment in [-20, 20]
}

// Artifact describes a published output. Metadata fields are best-effort:
// when the probe fails they are left at zero and the artifact is still
// published.
type Artifact struct {
	URL       string
	Duration  float64
	SizeBytes int64
	FPS       float64
	Width     int
	Height    int
}
