package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestResolver(t *testing.T) *HTTPResolver {
	t.Helper()
	r, err := NewHTTPResolver(t.TempDir(), 5*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPResolver() error = %v", err)
	}
	return r
}

// pngBytes encodes a small solid image as PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNewHTTPResolver(t *testing.T) {
	t.Run("creates temp directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "temp")
		r, err := NewHTTPResolver(dir, time.Second)
		if err != nil {
			t.Fatalf("NewHTTPResolver() error = %v", err)
		}
		if r.TempDir() != dir {
			t.Errorf("TempDir() = %q, want %q", r.TempDir(), dir)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("temp directory not created: %v", err)
		}
	})

	t.Run("defaults for empty arguments", func(t *testing.T) {
		r, err := NewHTTPResolver("", 0)
		if err != nil {
			t.Fatalf("NewHTTPResolver() error = %v", err)
		}
		want := filepath.Join(os.TempDir(), "composer")
		if r.TempDir() != want {
			t.Errorf("TempDir() = %q, want %q", r.TempDir(), want)
		}
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("local reference passes through unowned", func(t *testing.T) {
		r := newTestResolver(t)

		path, owned, err := r.Resolve(ctx, LocalReference("/data/input.mp4"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if path != "/data/input.mp4" {
			t.Errorf("path = %q, want unchanged input", path)
		}
		if owned {
			t.Error("local input must never be owned")
		}
	})

	t.Run("remote reference fetched to owned temp file", func(t *testing.T) {
		payload := []byte("fake mp3 payload")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write(payload)
		}))
		defer srv.Close()

		r := newTestResolver(t)
		path, owned, err := r.Resolve(ctx, RemoteReference(srv.URL+"/track.mp3"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !owned {
			t.Error("fetched file must be owned")
		}
		if !strings.HasSuffix(path, ".mp3") {
			t.Errorf("expected source extension preserved, got %q", path)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read fetched file: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Error("fetched content does not match payload")
		}
	})

	t.Run("non-2xx status yields FetchError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			http.NotFound(w, req)
		}))
		defer srv.Close()

		r := newTestResolver(t)
		_, _, err := r.Resolve(ctx, RemoteReference(srv.URL+"/missing.mp4"))

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %v", err)
		}
		if fetchErr.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", fetchErr.StatusCode)
		}

		entries, _ := os.ReadDir(r.TempDir())
		if len(entries) != 0 {
			t.Errorf("expected no temp files after failed fetch, found %d", len(entries))
		}
	})

	t.Run("transport failure yields FetchError", func(t *testing.T) {
		r := newTestResolver(t)
		_, _, err := r.Resolve(ctx, RemoteReference("http://127.0.0.1:1/unreachable"))

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %v", err)
		}
	})
}

func TestResolveImage(t *testing.T) {
	ctx := context.Background()

	t.Run("remote image re-encoded to jpeg", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write(pngBytes(t))
		}))
		defer srv.Close()

		r := newTestResolver(t)
		path, owned, err := r.ResolveImage(ctx, RemoteReference(srv.URL+"/a.png"))
		if err != nil {
			t.Fatalf("ResolveImage() error = %v", err)
		}
		if !owned {
			t.Error("fetched image must be owned")
		}
		if !strings.HasSuffix(path, ".jpg") {
			t.Errorf("expected canonical .jpg output, got %q", path)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open re-encoded image: %v", err)
		}
		defer func() { _ = f.Close() }()
		if _, err := jpeg.Decode(f); err != nil {
			t.Errorf("output is not valid JPEG: %v", err)
		}
	})

	t.Run("undecodable payload yields DecodeError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte("definitely not an image"))
		}))
		defer srv.Close()

		r := newTestResolver(t)
		_, _, err := r.ResolveImage(ctx, RemoteReference(srv.URL+"/a.jpg"))

		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected *DecodeError, got %v", err)
		}

		entries, _ := os.ReadDir(r.TempDir())
		if len(entries) != 0 {
			t.Errorf("expected no temp files after decode failure, found %d", len(entries))
		}
	})

	t.Run("local image passes through without re-encode", func(t *testing.T) {
		r := newTestResolver(t)
		path, owned, err := r.ResolveImage(ctx, LocalReference("/data/a.png"))
		if err != nil {
			t.Fatalf("ResolveImage() error = %v", err)
		}
		if path != "/data/a.png" || owned {
			t.Errorf("local image should pass through unowned, got %q owned=%v", path, owned)
		}
	})
}

func TestRemoteExt(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://x/a.mp4", ".mp4"},
		{"https://x/a.mp3?sig=abc123", ".mp3"},
		{"https://x/noext", ".bin"},
		{"https://x/weird.superlongextension", ".bin"},
	}

	for _, tt := range tests {
		if got := remoteExt(tt.url); got != tt.want {
			t.Errorf("remoteExt(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
