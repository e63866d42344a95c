// Package server provides the HTTP surface for the composition API.
// It includes handlers, middleware, routes, and DTOs separated from the
// pipeline's domain types.
package server

// ImageToVideoRequest is the HTTP request body for building a silent video
// from a still image.
type ImageToVideoRequest struct {
	// ImageURL is a local path or remote URL naming the source image.
	ImageURL string `json:"image_url" validate:"required"`
	// Duration is the clip length in seconds.
	Duration float64 `json:"duration" validate:"required,gt=0"`
}

// ImageAudioToVideoRequest is the HTTP request body for building a video
// from a still image and an audio track.
type ImageAudioToVideoRequest struct {
	// ImageURL is a local path or remote URL naming the source image.
	ImageURL string `json:"image_url" validate:"required"`
	// AudioURL is a local path or remote URL naming the source audio.
	AudioURL string `json:"audio_url" validate:"required"`
	// VolumeDB adjusts audio volume in decibels; positive raises, negative lowers.
	VolumeDB float64 `json:"volume_db" validate:"gte=-20,lte=20"`
}

// ConcatenateVideosRequest is the HTTP request body for joining videos.
type ConcatenateVideosRequest struct {
	// VideoURLs lists the clips to join, in order.
	VideoURLs []string `json:"video_urls" validate:"required,min=1,dive,required"`
	// VolumeDB adjusts audio volume in decibels; positive raises, negative lowers.
	VolumeDB float64 `json:"volume_db" validate:"gte=-20,lte=20"`
}

// VideoResponse describes a published artifact.
type VideoResponse struct {
	// VideoURL is the retrievable URL of the published video.
	VideoURL string `json:"video_url"`
	// Duration is the probed video duration in seconds (0 if probing failed).
	Duration float64 `json:"duration"`
	// SizeBytes is the published file size.
	SizeBytes int64 `json:"size_bytes"`
	// FPS is the probed frame rate, when available.
	FPS float64 `json:"fps,omitempty"`
	// Width is the probed frame width, when available.
	Width int `json:"width,omitempty"`
	// Height is the probed frame height, when available.
	Height int `json:"height,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
