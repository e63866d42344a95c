package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewRunner(t *testing.T) {
	t.Run("default paths", func(t *testing.T) {
		r := NewRunner("", "")
		if r.ffmpegPath != "ffmpeg" {
			t.Errorf("expected default path 'ffmpeg', got %q", r.ffmpegPath)
		}
		if r.ffprobePath != "ffprobe" {
			t.Errorf("expected default path 'ffprobe', got %q", r.ffprobePath)
		}
	})

	t.Run("custom paths", func(t *testing.T) {
		r := NewRunner("/opt/bin/ffmpeg", "/opt/bin/ffprobe")
		if r.ffmpegPath != "/opt/bin/ffmpeg" {
			t.Errorf("expected custom ffmpeg path, got %q", r.ffmpegPath)
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("zero exit succeeds", func(t *testing.T) {
		r := NewRunner("true", "true")
		if err := r.Run(context.Background(), "-version"); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	})

	t.Run("non-zero exit returns typed error", func(t *testing.T) {
		r := NewRunner("false", "false")
		err := r.Run(context.Background(), "-i", "missing.mp4")
		if err == nil {
			t.Fatal("expected error for non-zero exit")
		}

		var engineErr *Error
		if !errors.As(err, &engineErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if len(engineErr.Args) != 2 {
			t.Errorf("expected args preserved, got %v", engineErr.Args)
		}
	})

	t.Run("cancelled context reported", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()

		r := NewRunner("sleep", "sleep")
		err := r.Run(ctx, "5")
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline error, got %v", err)
		}
	})
}

func TestProbe(t *testing.T) {
	t.Run("returns stdout", func(t *testing.T) {
		r := NewRunner("echo", "echo")
		out, err := r.Probe(context.Background(), "hello")
		if err != nil {
			t.Fatalf("Probe() error = %v", err)
		}
		if strings.TrimSpace(string(out)) != "hello" {
			t.Errorf("expected stdout captured, got %q", out)
		}
	})

	t.Run("failure returns typed error", func(t *testing.T) {
		r := NewRunner("false", "false")
		_, err := r.Probe(context.Background(), "anything")

		var engineErr *Error
		if !errors.As(err, &engineErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
	})
}

func TestError(t *testing.T) {
	inner := errors.New("exit status 1")
	err := &Error{
		Args:   []string{"-i", "in.mp4"},
		Stderr: "unknown codec",
		Err:    inner,
	}

	if !strings.Contains(err.Error(), "unknown codec") {
		t.Errorf("expected stderr in message, got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to expose inner error")
	}
}
