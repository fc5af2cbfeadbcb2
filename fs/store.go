// Package fs writes scraped modules to the local filesystem.
package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/gridscrape"
)

// Ensure FileStore implements gridscrape.ModuleStore at compile time.
var _ gridscrape.ModuleStore = (*FileStore)(nil)

// FileStore writes modules as JSON Lines with atomic update semantics.
// Modules are appended to path.tmp, which replaces path on Commit.
// It is safe for concurrent use.
type FileStore struct {
	path string

	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	done bool
}

// NewFileStore creates a FileStore targeting path.
// Nothing is written until the first SaveModule or Commit.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) tempPath() string {
	return s.path + ".tmp"
}

// SaveModule appends one JSON line to the temporary file.
func (s *FileStore) SaveModule(ctx context.Context, m *gridscrape.Module) error {
	if err := m.Validate(); err != nil {
		return err
	}

	line, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding module %s: %w", m.URL, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.buf.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing %s: %w", s.tempPath(), err)
	}
	return nil
}

// Commit flushes the temporary file and renames it over the final path.
func (s *FileStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return err
	}
	s.done = true

	if err := s.buf.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("flushing %s: %w", s.tempPath(), err)
	}
	if err := s.file.Sync(); err != nil {
		s.file.Close()
		return fmt.Errorf("syncing %s: %w", s.tempPath(), err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", s.tempPath(), err)
	}
	return os.Rename(s.tempPath(), s.path)
}

// Abort discards the temporary file. The final path is left untouched.
func (s *FileStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.done = true
	if s.file != nil {
		s.file.Close()
	}
	if err := os.Remove(s.tempPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// open creates the temporary file on first use. Callers hold s.mu.
func (s *FileStore) open() error {
	if s.done {
		return gridscrape.Errorf(gridscrape.ECONFLICT, "store for %s already closed", s.path)
	}
	if s.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	f, err := os.Create(s.tempPath())
	if err != nil {
		return err
	}
	s.file = f
	s.buf = bufio.NewWriter(f)
	return nil
}
