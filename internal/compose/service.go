package compose

import (
	"context"
	"log/slog"

	"github.com/mediaforge/composer-api/internal/asset"
	"github.com/mediaforge/composer-api/internal/audio"
	"github.com/mediaforge/composer-api/internal/media"
	"github.com/mediaforge/composer-api/internal/publish"
)

// Service sequences resolver → normalizer/compositor → publisher per
// request. Requests execute independently; the only state shared across
// concurrent calls is the filesystem namespace, where every generated
// filename is unique.
type Service struct {
	resolver   asset.Resolver
	normalizer audio.Normalizer
	compositor media.Compositor
	prober     media.Prober
	publisher  publish.Publisher
	logger     *slog.Logger
}

// NewService creates a Service from its collaborator ports.
func NewService(
	resolver asset.Resolver,
	normalizer audio.Normalizer,
	compositor media.Compositor,
	prober media.Prober,
	publisher publish.Publisher,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resolver:   resolver,
		normalizer: normalizer,
		compositor: compositor,
		prober:     prober,
		publisher:  publisher,
		logger:     logger,
	}
}

// ImageToVideo builds a fixed-duration silent video from a still image and
// publishes it.
func (s *Service) ImageToVideo(ctx context.Context, req ImageToVideoRequest) (*Artifact, error) {
	if req.Duration <= 0 {
		return nil, validationError("duration must be positive, got %.2f", req.Duration)
	}

	t := newTracker(s.logger)
	defer t.cleanup()

	imagePath, owned, err := s.resolver.ResolveImage(ctx, req.Image)
	if err != nil {
		return nil, classify(err)
	}
	t.track(imagePath, owned)

	outputPath, err := s.compositor.ComposeImage(ctx, imagePath, req.Duration)
	if err != nil {
		return nil, classify(err)
	}
	t.track(outputPath, true)

	return s.finish(ctx, outputPath)
}

// ImageAudioToVideo normalizes the audio track, overlays the still image
// for the audio's full duration, and publishes the result.
func (s *Service) ImageAudioToVideo(ctx context.Context, req ImageAudioToVideoRequest) (*Artifact, error) {
	if req.GainDB < -20 || req.GainDB > 20 {
		return nil, validationError("gain must be between -20 and 20 dB, got %.2f", req.GainDB)
	}

	t := newTracker(s.logger)
	defer t.cleanup()

	imagePath, owned, err := s.resolver.ResolveImage(ctx, req.Image)
	if err != nil {
		return nil, classify(err)
	}
	t.track(imagePath, owned)

	audioPath, owned, err := s.resolver.Resolve(ctx, req.Audio)
	if err != nil {
		return nil, classify(err)
	}
	t.track(audioPath, owned)

	normalizedPath, err := s.normalizer.Normalize(ctx, audioPath, req.GainDB)
	if err != nil {
		return nil, classify(err)
	}
	t.track(normalizedPath, true)

	outputPath, err := s.compositor.ComposeImageAudio(ctx, imagePath, normalizedPath)
	if err != nil {
		return nil, classify(err)
	}
	t.track(outputPath, true)

	return s.finish(ctx, outputPath)
}

// Concatenate joins the referenced videos in order, applying the gain
// adjustment to every clip's audio, and publishes the result.
func (s *Service) Concatenate(ctx context.Context, req ConcatenateRequest) (*Artifact, error) {
	if len(req.Videos) == 0 {
		return nil, &Error{Kind: KindEmptyInput, Message: "at least one video is required"}
	}
	if req.GainDB < -20 || req.GainDB > 20 {
		return nil, validationError("gain must be between -20 and 20 dB, got %.2f", req.GainDB)
	}

	t := newTracker(s.logger)
	defer t.cleanup()

	videoPaths := make([]string, 0, len(req.Videos))
	for _, ref := range req.Videos {
		p, owned, err := s.resolver.Resolve(ctx, ref)
		if err != nil {
			return nil, classify(err)
		}
		t.track(p, owned)
		videoPaths = append(videoPaths, p)
	}

	outputPath, err := s.compositor.Concatenate(ctx, videoPaths, req.GainDB)
	if err != nil {
		return nil, classify(err)
	}
	t.track(outputPath, true)

	return s.finish(ctx, outputPath)
}

// finish probes the composed output for metadata and publishes it. Probe
// failure degrades to a zero-metadata artifact rather than aborting the
// request; the artifact is still published.
func (s *Service) finish(ctx context.Context, outputPath string) (*Artifact, error) {
	meta, err := s.prober.Probe(ctx, outputPath)
	if err != nil {
		s.logger.Warn("probe failed, publishing without metadata",
			slog.String("path", outputPath),
			slog.String("error", err.Error()),
		)
		meta = media.Metadata{}
	}

	url, size, err := s.publisher.Publish(ctx, outputPath)
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("artifact published",
		slog.String("url", url),
		slog.Int64("size_bytes", size),
		slog.Float64("duration", meta.Duration),
	)

	return &Artifact{
		URL:       url,
		Duration:  meta.Duration,
		SizeBytes: size,
		FPS:       meta.FPS,
		Width:     meta.Width,
		Height:    meta.Height,
	}, nil
}
