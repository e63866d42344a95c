package server

import (
	"log/slog"
	"net/http"
	"path/filepath"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
	// StaticRoot, when non-empty, is the storage root whose videos/
	// subtree is served under /videos/. Leave empty when artifacts are
	// published to a remote store.
	StaticRoot string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /image-to-video", h.ImageToVideo)
	mux.HandleFunc("POST /image-audio-to-video", h.ImageAudioToVideo)
	mux.HandleFunc("POST /concatenate-videos", h.ConcatenateVideos)

	if cfg.StaticRoot != "" {
		videosDir := filepath.Join(cfg.StaticRoot, "videos")
		mux.Handle("GET /videos/", http.StripPrefix("/videos/", http.FileServer(http.Dir(videosDir))))
	}

	// Apply middleware chain
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
