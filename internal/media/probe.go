package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Metadata describes a probed media file. Fields the probe could not
// determine are left at their zero value.
type Metadata struct {
	Duration float64
	Width    int
	Height   int
	FPS      float64
}

// Prober extracts metadata from a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (Metadata, error)
}

// probeOutput mirrors the JSON shape emitted by ffprobe.
type probeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe implements Prober using ffprobe. It reads the container duration
// and the first video stream's dimensions and frame rate.
func (c *FFmpegCompositor) Probe(ctx context.Context, path string) (Metadata, error) {
	out, err := c.run.Probe(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	if err != nil {
		return Metadata{}, fmt.Errorf("probe %s: %w", path, err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return Metadata{}, fmt.Errorf("parse probe output: %w", err)
	}

	var meta Metadata
	if parsed.Format.Duration != "" {
		if d, err := strconv.ParseFloat(strings.TrimSpace(parsed.Format.Duration), 64); err == nil {
			meta.Duration = d
		}
	}
	if len(parsed.Streams) > 0 {
		s := parsed.Streams[0]
		meta.Width = s.Width
		meta.Height = s.Height
		meta.FPS = parseFrameRate(s.RFrameRate)
	}

	return meta, nil
}

// parseFrameRate parses ffprobe's "num/den" or plain numeric frame rate
// notation, returning 0 on anything unrecognized.
func parseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		return v
	case 2:
		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0
		}
		return num / den
	}

	return 0
}

var _ Prober = (*FFmpegCompositor)(nil)
