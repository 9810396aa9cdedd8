package dayflag

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "last_image_date"))

	_, ok, err := s.LastImageDate()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last_image_date")
	s := NewFileStore(path)

	want := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	require.NoError(t, s.SetLastImageDate(want))

	got, ok, err := s.LastImageDate()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, SameDay(want, got))

	// stored as a single ISO date line
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02\n", string(data))
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_image_date")
	require.NoError(t, os.WriteFile(path, []byte("not a date"), 0600))

	_, _, err := NewFileStore(path).LastImageDate()
	assert.Error(t, err)
}

func TestFileStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_image_date")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

	_, ok, err := NewFileStore(path).LastImageDate()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)
	b := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)
	c := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c))
}
