// Package bootstrap provides dependency initialization for the composition API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/mediaforge/composer-api/internal/asset"
	"github.com/mediaforge/composer-api/internal/audio"
	"github.com/mediaforge/composer-api/internal/compose"
	"github.com/mediaforge/composer-api/internal/config"
	"github.com/mediaforge/composer-api/internal/engine"
	"github.com/mediaforge/composer-api/internal/media"
	"github.com/mediaforge/composer-api/internal/publish"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	ComposeService *compose.Service
	// StaticRoot is the local storage root to serve under /videos/,
	// empty when artifacts are published to S3.
	StaticRoot string
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	resolver, err := asset.NewHTTPResolver(cfg.TempDir, cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("create asset resolver: %w", err)
	}

	runner := engine.NewRunner(cfg.FFmpegPath, cfg.FFprobePath)
	normalizer := audio.NewFFmpegNormalizer(runner, cfg.TempDir)
	compositor := media.NewFFmpegCompositor(runner, cfg.TempDir)

	publisher, staticRoot, err := initPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}

	svc := compose.NewService(
		resolver,
		normalizer,
		compositor,
		compositor,
		publisher,
		logger,
	)

	return &Dependencies{
		ComposeService: svc,
		StaticRoot:     staticRoot,
	}, nil
}

// initPublisher creates the appropriate publisher backend based on
// configuration, returning the local static root when applicable.
func initPublisher(cfg *config.Config, logger *slog.Logger) (publish.Publisher, string, error) {
	if cfg.S3Enabled() {
		s3Pub, err := publish.NewS3Publisher(publish.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, "", fmt.Errorf("create S3 publisher: %w", err)
		}
		logger.Info("S3 publishing configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Pub, "", nil
	}

	localPub, err := publish.NewLocalPublisher(cfg.StorageRoot, cfg.BaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("create local publisher: %w", err)
	}
	logger.Info("local publishing configured",
		slog.String("storage_root", localPub.Root()),
	)
	return localPub, localPub.Root(), nil
}
