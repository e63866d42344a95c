package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalPublisher implements Publisher by copying artifacts into a
// date-sharded directory tree under a storage root. URLs are built by
// joining a configured base prefix with the shard path, so the tree can be
// served as static files.
type LocalPublisher struct {
	root    string
	baseURL string
	now     func() time.Time
}

// NewLocalPublisher creates a LocalPublisher rooted at root. baseURL is
// prepended to returned URLs; empty yields root-relative URLs. The root
// directory is created if it doesn't exist.
func NewLocalPublisher(root, baseURL string) (*LocalPublisher, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}

	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &LocalPublisher{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Root returns the storage root directory.
func (p *LocalPublisher) Root() string {
	return p.root
}

// Publish implements Publisher. The shard directory creation is
// idempotent, so concurrent requests publishing on the same date never
// conflict, and fresh UUID filenames never collide.
func (p *LocalPublisher) Publish(ctx context.Context, localPath string) (string, int64, error) {
	select {
	case <-ctx.Done():
		return "", 0, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	key := shardKey(localPath, p.now())
	destPath := filepath.Join(p.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return "", 0, &Error{Path: destPath, Err: err}
	}

	size, err := copyFile(localPath, destPath)
	if err != nil {
		return "", 0, &Error{Path: destPath, Err: err}
	}

	return p.baseURL + "/" + key, size, nil
}

// copyFile copies src to dst and returns the number of bytes written.
// A partial destination is removed on failure.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src) // #nosec G304 - src is produced by the pipeline, not user input
	if err != nil {
		return 0, fmt.Errorf("open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640) // #nosec G304
	if err != nil {
		return 0, fmt.Errorf("create destination file: %w", err)
	}

	size, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return 0, fmt.Errorf("copy file: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("close destination file: %w", err)
	}

	return size, nil
}
