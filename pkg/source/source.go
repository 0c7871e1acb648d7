// Package source loads graph snapshots from local files or remote
// collection endpoints. Commands accept either form and resolve them
// through [Resolve], so a snapshot argument can be a path on disk or an
// http(s) URL serving snapshot JSON.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/artatlas/artgraph/pkg/cache"
	"github.com/artatlas/artgraph/pkg/errors"
	"github.com/artatlas/artgraph/pkg/graph"
)

// DefaultFetchTimeout bounds a single remote fetch attempt.
const DefaultFetchTimeout = 30 * time.Second

// maxSnapshotBytes caps remote snapshot payloads.
const maxSnapshotBytes = 32 << 20

// Source yields a graph snapshot.
type Source interface {
	// Fetch loads and validates the snapshot.
	Fetch(ctx context.Context) (*graph.Snapshot, error)

	// Describe returns a short human-readable origin for log lines and
	// error messages.
	Describe() string
}

// Resolve picks a source for a snapshot argument: http(s) URLs become a
// [HTTPSource], everything else a [FileSource].
func Resolve(arg string) Source {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return NewHTTPSource(arg, nil)
	}
	return &FileSource{Path: arg}
}

// =============================================================================
// File Source
// =============================================================================

// FileSource reads a snapshot from a JSON file on disk.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) (*graph.Snapshot, error) {
	return graph.ReadSnapshotFile(s.Path)
}

func (s *FileSource) Describe() string { return s.Path }

// =============================================================================
// HTTP Source
// =============================================================================

// HTTPSource fetches a snapshot from a collection endpoint. Transient
// failures (network errors and 5xx responses) are retried with backoff.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for the given URL. A nil client gets a
// default with [DefaultFetchTimeout].
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context) (*graph.Snapshot, error) {
	var snap *graph.Snapshot

	err := cache.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return cache.Retryable(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return errors.New(errors.ErrCodeGraphNotFound, "snapshot not found at %s", s.url)
		case resp.StatusCode >= 500:
			return cache.Retryable(fmt.Errorf("fetch %s: status %d", s.url, resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return errors.New(errors.ErrCodeStoreFailure, "fetch %s: status %d", s.url, resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
		if err != nil {
			return cache.Retryable(err)
		}
		snap, err = graph.UnmarshalSnapshot(data)
		return err
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeStoreFailure, err, "fetch snapshot from %s", s.url)
	}
	return snap, nil
}

func (s *HTTPSource) Describe() string { return s.url }
