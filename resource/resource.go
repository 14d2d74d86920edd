// Package resource opens configuration and replay documents stored either
// on the local filesystem or behind an http(s) URL.
package resource

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsupportedScheme = errors.New("resource: unsupported scheme")

// Resource is a readable document stream.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Location returns the path or URL the resource was opened from.
func (r *Resource) Location() string {
	return r.url.String()
}

// IsRemote returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resource. Locations without a scheme are treated as local paths;
// windows path separators are accepted. The caller must close the
// returned resource.
func Open(location string) (*Resource, error) {
	u, err := url.Parse(strings.ReplaceAll(location, `\`, `/`))
	if err != nil {
		return nil, fmt.Errorf("resource: invalid location %q: %w", location, err)
	}

	var reader io.ReadCloser
	switch u.Scheme {
	case "", "file":
		reader, err = os.Open(filepath.Clean(u.Path))
		if err != nil {
			return nil, err
		}
		u.Scheme = ""
	case "http", "https":
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %w", u, err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", u, resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedScheme, u.Scheme)
	}

	return &Resource{ReadCloser: reader, url: u}, nil
}
