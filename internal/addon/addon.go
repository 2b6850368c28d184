// SPDX-License-Identifier: MPL-2.0

// Package addon describes the files a package installs and the queue that
// evaluation fills with fetch requests. Fetching and placing files is the
// job of the queue's consumer.
package addon

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mcpkg/mcpkg/pkg/types"
)

const (
	// LocationRemote is an addon downloaded from a URL.
	LocationRemote LocationKind = "remote"
	// LocationLocal is an addon copied from the local filesystem.
	LocationLocal LocationKind = "local"
)

// ErrInvalidLocation is returned when a Location is neither remote nor local.
var ErrInvalidLocation = errors.New("invalid addon location")

type (
	// Hashes are the optional expected digests of an addon file, hex-encoded.
	Hashes struct {
		SHA256 string `json:"sha256,omitempty"`
		SHA512 string `json:"sha512,omitempty"`
	}

	// Addon is a file a package installs.
	Addon struct {
		ID       string              `json:"id"`
		Kind     types.AddonKind     `json:"kind"`
		FileName string              `json:"file_name"`
		Package  types.PkgIdentifier `json:"package"`
		// Version is empty when the package does not version the addon.
		Version string `json:"version,omitempty"`
		Hashes  Hashes `json:"hashes,omitzero"`
	}

	// LocationKind says where an addon comes from.
	LocationKind string

	// Location is the source of an addon file.
	Location struct {
		Kind LocationKind `json:"kind"`
		// URL is set for remote addons.
		URL string `json:"url,omitempty"`
		// Path is set for local addons. It is already expanded.
		Path string `json:"path,omitempty"`
	}

	// Request asks for an addon to be fetched from a location.
	Request struct {
		Addon    Addon    `json:"addon"`
		Location Location `json:"location"`
	}

	// Queue collects requests produced by evaluation. It is safe for
	// concurrent use; evaluation only pushes, consumers drain.
	Queue struct {
		mu       sync.Mutex
		requests []Request
	}
)

// Remote returns a remote location.
func Remote(url string) Location {
	return Location{Kind: LocationRemote, URL: url}
}

// Local returns a local location.
func Local(path string) Location {
	return Location{Kind: LocationLocal, Path: path}
}

// String renders the location for display.
func (l Location) String() string {
	switch l.Kind {
	case LocationRemote:
		return l.URL
	case LocationLocal:
		return "file://" + l.Path
	default:
		return "<invalid>"
	}
}

// Validate checks that exactly the field for the location kind is set.
func (l Location) Validate() error {
	switch {
	case l.Kind == LocationRemote && l.URL != "" && l.Path == "":
		return nil
	case l.Kind == LocationLocal && l.Path != "" && l.URL == "":
		return nil
	default:
		return fmt.Errorf("%w: kind=%q url=%q path=%q", ErrInvalidLocation, l.Kind, l.URL, l.Path)
	}
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends requests to the queue.
func (q *Queue) Push(reqs ...Request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.requests = append(q.requests, reqs...)
}

// Len returns the number of queued requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}

// Drain removes and returns every queued request in push order.
func (q *Queue) Drain() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.requests
	q.requests = nil
	return out
}
