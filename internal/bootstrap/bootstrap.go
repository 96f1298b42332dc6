// Package bootstrap fetches the published index from a remote URL on first
// use when no local copy exists. It is a singleton service injected into the
// HTTP shell; the fetch happens at most once per process, successful or not.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Status is the service's tri-state.
type Status string

const (
	StatusAbsent   Status = "absent"   // no index and no fetch attempted yet
	StatusFetching Status = "fetching" // a fetch is in flight
	StatusReady    Status = "ready"    // a local index file exists
)

// Service downloads the index database once. All state lives on the struct
// behind a mutex; there are no package globals.
type Service struct {
	dbPath string
	dbURL  string
	client *http.Client

	mu        sync.Mutex
	status    Status
	attempted bool
	lastErr   error
}

// NewService returns a Service that materializes dbPath from dbURL. An empty
// dbURL disables fetching; Ensure then only reports whether the file exists.
func NewService(dbPath, dbURL string) *Service {
	return &Service{
		dbPath: dbPath,
		dbURL:  dbURL,
		client: &http.Client{Timeout: 5 * time.Minute},
		status: StatusAbsent,
	}
}

// Status returns the current tri-state, refreshed against the filesystem.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusFetching && s.exists() {
		s.status = StatusReady
	}
	return s.status
}

// Ensure makes the index available, downloading it when absent. Only the
// first caller attempts the download; once an attempt has failed, later
// calls fail fast rather than hammering the remote.
func (s *Service) Ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists() {
		s.status = StatusReady
		return nil
	}
	if s.dbURL == "" {
		return fmt.Errorf("index not found at %s and no download URL is configured", s.dbPath)
	}
	if s.attempted {
		if s.lastErr != nil {
			return fmt.Errorf("index download already attempted and failed: %w", s.lastErr)
		}
		return fmt.Errorf("index download already attempted and failed")
	}

	s.attempted = true
	s.status = StatusFetching
	err := s.fetch(ctx)
	if err != nil {
		s.lastErr = err
		s.status = StatusAbsent
		return fmt.Errorf("download index: %w", err)
	}
	if !s.exists() {
		s.lastErr = fmt.Errorf("download completed but file not found")
		s.status = StatusAbsent
		return s.lastErr
	}
	s.status = StatusReady
	return nil
}

func (s *Service) exists() bool {
	info, err := os.Stat(s.dbPath)
	return err == nil && !info.IsDir()
}

// fetch streams the remote database to a sibling temp file and renames it
// into place so a partial download never becomes the live index.
func (s *Service) fetch(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.dbURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmpPath := s.dbPath + ".download"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.dbPath)
}
