package compose

import (
	"errors"
	"fmt"

	"github.com/mediaforge/composer-api/internal/asset"
	"github.com/mediaforge/composer-api/internal/audio"
	"github.com/mediaforge/composer-api/internal/engine"
	"github.com/mediaforge/composer-api/internal/media"
	"github.com/mediaforge/composer-api/internal/publish"
)

// Kind classifies a pipeline failure for the caller-facing boundary.
type Kind string

const (
	// KindValidation indicates a malformed request or out-of-range parameter.
	KindValidation Kind = "validation"
	// KindFetch indicates a remote reference could not be retrieved.
	KindFetch Kind = "fetch"
	// KindDecode indicates fetched image bytes could not be decoded.
	KindDecode Kind = "decode"
	// KindTranscode indicates the external engine returned non-zero exit.
	KindTranscode Kind = "transcode"
	// KindEmptyInput indicates concatenation was attempted with zero clips.
	KindEmptyInput Kind = "empty_input"
	// KindPublish indicates the durable-storage write failed.
	KindPublish Kind = "publish"
	// KindInternal indicates any other unexpected failure.
	KindInternal Kind = "internal"
)

// Error is the caller-facing pipeline error. Message is human-readable;
// Err retains the underlying cause for unwrapping.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// validationError builds a validation failure with no underlying cause.
func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// classify maps an internal failure to the caller-facing taxonomy. Errors
// that are already classified pass through unchanged.
func classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var fetchErr *asset.FetchError
	if errors.As(err, &fetchErr) {
		return &Error{Kind: KindFetch, Message: fetchErr.Error(), Err: err}
	}

	var decodeErr *asset.DecodeError
	if errors.As(err, &decodeErr) {
		return &Error{Kind: KindDecode, Message: decodeErr.Error(), Err: err}
	}

	if errors.Is(err, media.ErrNoInputVideos) {
		return &Error{Kind: KindEmptyInput, Message: "no input videos provided", Err: err}
	}

	if errors.Is(err, audio.ErrGainOutOfRange) || errors.Is(err, media.ErrInvalidDuration) {
		return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	var engineErr *engine.Error
	if errors.As(err, &engineErr) {
		return &Error{Kind: KindTranscode, Message: "transcoding failed: " + engineErr.Stderr, Err: err}
	}

	var publishErr *publish.Error
	if errors.As(err, &publishErr) {
		return &Error{Kind: KindPublish, Message: publishErr.Error(), Err: err}
	}

	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}
