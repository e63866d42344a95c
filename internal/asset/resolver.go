package asset

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	// Register decoders for the image formats remote sources commonly serve.
	_ "image/gif"
	_ "image/png"
)

// jpegQuality is the encode quality used when canonicalizing remote images.
const jpegQuality = 90

// Resolver turns a Reference into a local, readable file. The returned
// owned flag is true when the resolver created the file, in which case the
// caller must delete it when done. Caller-supplied local input is never
// owned and must never be deleted.
type Resolver interface {
	// Resolve fetches the referenced media as-is.
	Resolve(ctx context.Context, ref Reference) (path string, owned bool, err error)

	// ResolveImage fetches the referenced media and, for remote
	// references, decodes and re-encodes the payload to a canonical JPEG
	// so downstream composition always receives a well-formed image.
	ResolveImage(ctx context.Context, ref Reference) (path string, owned bool, err error)
}

// FetchError indicates a remote reference could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the transport itself failed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError indicates fetched bytes could not be decoded as an image.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// HTTPResolver implements Resolver using an HTTP client with a bounded
// timeout. Remote payloads are written to freshly named files under tempDir.
type HTTPResolver struct {
	client  *http.Client
	tempDir string
}

// NewHTTPResolver creates an HTTPResolver that stores fetched files under
// tempDir, creating the directory if needed. If tempDir is empty,
// os.TempDir() is used. A non-positive timeout defaults to 30 seconds.
func NewHTTPResolver(tempDir string, timeout time.Duration) (*HTTPResolver, error) {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "composer")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if err := os.MkdirAll(tempDir, 0750); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	return &HTTPResolver{
		client:  &http.Client{Timeout: timeout},
		tempDir: tempDir,
	}, nil
}

// TempDir returns the directory fetched files are written to.
func (r *HTTPResolver) TempDir() string {
	return r.tempDir
}

// Resolve implements Resolver.Resolve. Local references pass through
// unchanged and unowned.
func (r *HTTPResolver) Resolve(ctx context.Context, ref Reference) (string, bool, error) {
	if !ref.IsRemote() {
		return ref.String(), false, nil
	}

	body, err := r.fetch(ctx, ref.String())
	if err != nil {
		return "", false, err
	}
	defer func() { _ = body.Close() }()

	ext := remoteExt(ref.String())
	p, err := r.writeTemp("asset_*"+ext, body)
	if err != nil {
		return "", false, err
	}

	return p, true, nil
}

// ResolveImage implements Resolver.ResolveImage.
func (r *HTTPResolver) ResolveImage(ctx context.Context, ref Reference) (string, bool, error) {
	if !ref.IsRemote() {
		return ref.String(), false, nil
	}

	body, err := r.fetch(ctx, ref.String())
	if err != nil {
		return "", false, err
	}
	defer func() { _ = body.Close() }()

	img, _, err := image.Decode(body)
	if err != nil {
		return "", false, &DecodeError{URL: ref.String(), Err: err}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", false, &DecodeError{URL: ref.String(), Err: err}
	}

	p, err := r.writeTemp("image_*.jpg", &buf)
	if err != nil {
		return "", false, err
	}

	return p, true, nil
}

// fetch performs the GET and returns the response body on a 2xx status.
func (r *HTTPResolver) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}

// writeTemp writes data to a freshly named file under tempDir.
func (r *HTTPResolver) writeTemp(pattern string, data io.Reader) (string, error) {
	f, err := os.CreateTemp(r.tempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	name := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return name, nil
}

// remoteExt extracts a filename extension from a URL path, defaulting to
// a neutral suffix so ffmpeg still sniffs the container from content.
func remoteExt(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := path.Ext(path.Base(p))
	if ext == "" || len(ext) > 8 {
		return ".bin"
	}
	return ext
}
