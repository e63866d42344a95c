package compose

import (
	"log/slog"
	"os"
)

// tracker accumulates every owned temporary file created during one
// request. It is request-scoped: one instance per call, never shared.
type tracker struct {
	logger *slog.Logger
	paths  []string
}

func newTracker(logger *slog.Logger) *tracker {
	return &tracker{logger: logger}
}

// track registers a path for deletion if owned is true. Caller-supplied
// local input is registered with owned=false and never deleted.
func (t *tracker) track(path string, owned bool) {
	if owned && path != "" {
		t.paths = append(t.paths, path)
	}
}

// cleanup deletes every tracked path exactly once. Deletion failures for
// individual files are logged, not propagated; every path is attempted
// even if one deletion fails.
func (t *tracker) cleanup() {
	for _, p := range t.paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			t.logger.Warn("failed to remove temp file",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
	t.paths = nil
}
