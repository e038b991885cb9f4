// SPDX-License-Identifier: MPL-2.0

package courseconfig

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aplus-courses/coursekit/pkg/course"
)

// Fetcher retrieves a remote document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Read returns the raw bytes at location: an http(s) URL read through f,
// a file:// URL, or a local path. Component artifacts with file:// URLs are
// read the same way.
func Read(ctx context.Context, location string, f Fetcher) ([]byte, error) {
	if IsRemote(location) {
		if f == nil {
			return nil, fmt.Errorf("cannot fetch %s: no fetcher configured", location)
		}
		return f.Fetch(ctx, location)
	}

	path := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", location, err)
		}
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Load reads and parses the document at location.
func Load(ctx context.Context, location string, f Fetcher, prober StateProber) (*course.Course, error) {
	data, err := Read(ctx, location, f)
	if err != nil {
		return nil, err
	}
	return Parse(data, location, prober)
}
