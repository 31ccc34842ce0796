// Package storage manages the temporary files that hold in-flight downloads.
package storage

import (
	"fmt"
	"os"
	"sync"

	"github.com/jonesrussell/pdf-relay/internal/logger"
)

// tempPattern names allocated files. CreateTemp replaces the "*" with a
// unique random suffix, so concurrent allocations never collide.
const tempPattern = "pdf_download_*.pdf"

// File is a write-once temporary file holding one in-flight download.
// It is written by a single goroutine, closed, then read by the delivery
// layer, and finally removed through the owning Store.
type File struct {
	f    *os.File
	path string
}

// Path returns the location of the file on disk.
func (f *File) Path() string {
	return f.path
}

// Write appends a chunk to the file.
func (f *File) Write(p []byte) (int, error) {
	return f.f.Write(p)
}

// Close seals the file for writing. The bytes stay on disk until removed.
func (f *File) Close() error {
	return f.f.Close()
}

// Store owns allocation and removal of temporary download files.
type Store struct {
	dir string
	log logger.Logger

	mu        sync.Mutex
	scheduled map[string]struct{}
}

// New creates a Store that allocates files under dir.
// An empty dir means the OS default temp directory.
func New(dir string, log logger.Logger) *Store {
	return &Store{
		dir:       dir,
		log:       log,
		scheduled: make(map[string]struct{}),
	}
}

// Allocate creates a new, empty, uniquely named temporary file.
func (s *Store) Allocate() (*File, error) {
	f, err := os.CreateTemp(s.dir, tempPattern)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &File{f: f, path: f.Name()}, nil
}

// Remove deletes the file at path. It is idempotent: removing a path that
// is already gone is a no-op. Failures are logged, never returned.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	err := os.Remove(path)
	switch {
	case err == nil:
		s.log.Debug("Removed temp file", logger.String("path", path))
	case os.IsNotExist(err):
		// Already gone.
	default:
		s.log.Error("Failed to remove temp file",
			logger.String("path", path),
			logger.Error(err),
		)
	}
}

// ScheduleRemoval returns a callback that removes path exactly once.
// The caller defers it so removal runs only after the response bytes have
// been written out. Scheduling the same path again while its removal is
// pending yields a no-op callback; an early-return cleanup and a
// post-delivery cleanup therefore never double-free.
func (s *Store) ScheduleRemoval(path string) func() {
	s.mu.Lock()
	if _, dup := s.scheduled[path]; dup {
		s.mu.Unlock()
		return func() {}
	}
	s.scheduled[path] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.scheduled, path)
			s.mu.Unlock()
			s.Remove(path)
		})
	}
}
