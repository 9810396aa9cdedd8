// Package dayflag persists the last calendar date an image-bearing post was
// published. It backs the at-most-one-image-per-day rule.
package dayflag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Store reads and writes the last-image date.
type Store interface {
	// LastImageDate returns the stored date and whether one exists.
	LastImageDate() (time.Time, bool, error)
	// SetLastImageDate records the date an image post succeeded.
	SetLastImageDate(t time.Time) error
}

// FileStore keeps the flag as a single-line file holding an ISO date.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LastImageDate() (time.Time, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read day flag: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed day flag %q: %w", raw, err)
	}
	return t, true, nil
}

func (s *FileStore) SetLastImageDate(t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(t.Format(dateLayout)+"\n"), 0600)
}

// Memory is an in-memory Store for tests.
type Memory struct {
	date time.Time
	set  bool
}

func (m *Memory) LastImageDate() (time.Time, bool, error) {
	return m.date, m.set, nil
}

func (m *Memory) SetLastImageDate(t time.Time) error {
	m.date = t
	m.set = true
	return nil
}

// SameDay reports whether two instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
