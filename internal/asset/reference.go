// Package asset resolves media references (local paths or remote URLs)
// into local, readable files.
package asset

import (
	"net/url"
	"strings"
)

// Reference names an input asset: either a path on the local filesystem or
// a remote HTTP(S) URL. The zero value is an empty local reference.
type Reference struct {
	raw    string
	remote bool
}

// ParseReference classifies a request string as a remote URL or a local
// path. Strings with an http or https scheme are remote; file:// URLs are
// stripped to their path; everything else is a local path.
func ParseReference(s string) Reference {
	s = strings.TrimSpace(s)

	if u, err := url.Parse(s); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return Reference{raw: s, remote: true}
		case "file":
			return Reference{raw: u.Path}
		}
	}

	return Reference{raw: s}
}

// LocalReference creates a reference to a local file path.
func LocalReference(path string) Reference {
	return Reference{raw: path}
}

// RemoteReference creates a reference to a remote URL.
func RemoteReference(url string) Reference {
	return Reference{raw: url, remote: true}
}

// IsRemote returns true if the reference names a remote URL.
func (r Reference) IsRemote() bool {
	return r.remote
}

// String returns the underlying path or URL.
func (r Reference) String() string {
	return r.raw
}
