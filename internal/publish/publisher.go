// Package publish copies finished artifacts into durable, date-sharded
// storage and returns a retrievable URL. It defines the Publisher port and
// implementations for local disk and S3.
package publish

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Publisher places a finished local file into durable storage. The source
// file is copied, never moved or deleted; cleanup of the source stays with
// the caller.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (url string, sizeBytes int64, err error)
}

// Error indicates a durable-storage write failed.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// shardKey builds the date-sharded storage key for a source file:
// videos/{YYYY-MM}/{DD}/{uuid}{ext}. The original extension is preserved
// and the filename is freshly generated, never reused.
func shardKey(localPath string, now time.Time) string {
	yearMonth := now.Format("2006-01")
	day := now.Format("02")
	name := uuid.NewString() + filepath.Ext(localPath)
	return path.Join("videos", yearMonth, day, name)
}
