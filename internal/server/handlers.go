package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mediaforge/composer-api/internal/asset"
	"github.com/mediaforge/composer-api/internal/compose"
)

// ComposeService is the pipeline surface the handlers depend on.
type ComposeService interface {
	ImageToVideo(ctx context.Context, req compose.ImageToVideoRequest) (*compose.Artifact, error)
	ImageAudioToVideo(ctx context.Context, req compose.ImageAudioToVideoRequest) (*compose.Artifact, error)
	Concatenate(ctx context.Context, req compose.ConcatenateRequest) (*compose.Artifact, error)
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   ComposeService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service ComposeService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ImageToVideo handles POST /image-to-video requests.
func (h *Handlers) ImageToVideo(w http.ResponseWriter, r *http.Request) {
	var req ImageToVideoRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	artifact, err := h.service.ImageToVideo(r.Context(), compose.ImageToVideoRequest{
		Image:    asset.ParseReference(req.ImageURL),
		Duration: req.Duration,
	})
	if err != nil {
		h.writePipelineError(w, "image-to-video", err)
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(artifact))
}

// ImageAudioToVideo handles POST /image-audio-to-video requests.
func (h *Handlers) ImageAudioToVideo(w http.ResponseWriter, r *http.Request) {
	var req ImageAudioToVideoRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	artifact, err := h.service.ImageAudioToVideo(r.Context(), compose.ImageAudioToVideoRequest{
		Image:  asset.ParseReference(req.ImageURL),
		Audio:  asset.ParseReference(req.AudioURL),
		GainDB: req.VolumeDB,
	})
	if err != nil {
		h.writePipelineError(w, "image-audio-to-video", err)
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(artifact))
}

// ConcatenateVideos handles POST /concatenate-videos requests.
func (h *Handlers) ConcatenateVideos(w http.ResponseWriter, r *http.Request) {
	var req ConcatenateVideosRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	videos := make([]asset.Reference, 0, len(req.VideoURLs))
	for _, u := range req.VideoURLs {
		videos = append(videos, asset.ParseReference(u))
	}

	artifact, err := h.service.Concatenate(r.Context(), compose.ConcatenateRequest{
		Videos: videos,
		GainDB: req.VolumeDB,
	})
	if err != nil {
		h.writePipelineError(w, "concatenate-videos", err)
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(artifact))
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing the error response itself when either step fails.
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return false
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return false
	}

	return true
}

// writePipelineError maps a pipeline failure to an HTTP response.
func (h *Handlers) writePipelineError(w http.ResponseWriter, op string, err error) {
	var pipeErr *compose.Error
	if !errors.As(err, &pipeErr) {
		pipeErr = &compose.Error{Kind: compose.KindInternal, Message: err.Error()}
	}

	status, code := statusForKind(pipeErr.Kind)

	logFn := h.logger.Error
	if status < http.StatusInternalServerError {
		logFn = h.logger.Warn
	}
	logFn("composition failed",
		slog.String("operation", op),
		slog.String("kind", string(pipeErr.Kind)),
		slog.String("error", err.Error()),
	)

	writeError(w, status, pipeErr.Message, code)
}

// statusForKind maps the pipeline error taxonomy to HTTP status and code.
func statusForKind(kind compose.Kind) (int, string) {
	switch kind {
	case compose.KindValidation:
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case compose.KindEmptyInput:
		return http.StatusBadRequest, "EMPTY_INPUT"
	case compose.KindDecode:
		return http.StatusUnprocessableEntity, "DECODE_FAILED"
	case compose.KindFetch:
		return http.StatusBadGateway, "FETCH_FAILED"
	case compose.KindTranscode:
		return http.StatusInternalServerError, "TRANSCODE_FAILED"
	case compose.KindPublish:
		return http.StatusInternalServerError, "PUBLISH_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// toVideoResponse converts an artifact to its HTTP representation.
func toVideoResponse(a *compose.Artifact) VideoResponse {
	return VideoResponse{
		VideoURL:  a.URL,
		Duration:  a.Duration,
		SizeBytes: a.SizeBytes,
		FPS:       a.FPS,
		Width:     a.Width,
		Height:    a.Height,
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
