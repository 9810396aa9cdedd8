package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "voicebot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndRecentPosts(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	for i, p := range []PublishedPost{
		{PostID: "1", Text: "morning post", HasImage: true, MediaID: "m1", Status: "success", PostedAt: base},
		{PostID: "2", Text: "midday post", Status: "success", PostedAt: base.Add(4 * time.Hour)},
		{PostID: "3", Text: "evening post", Status: "error", PostedAt: base.Add(11 * time.Hour)},
	} {
		p := p
		require.NoError(t, s.SavePublishedPost(&p), "post %d", i)
	}

	posts, err := s.RecentPosts(2)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// Newest first.
	assert.Equal(t, "3", posts[0].PostID)
	assert.Equal(t, "2", posts[1].PostID)
	assert.Equal(t, "error", posts[0].Status)
}

func TestSavePublishedPostDefaultsPostedAt(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SavePublishedPost(&PublishedPost{Text: "t", Status: "success"}))

	posts, err := s.RecentPosts(1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].PostedAt.IsZero())
}

func TestSaveReply(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveReply(&Reply{
		CandidateID:   "42",
		CandidateText: "original",
		ReplyText:     "a reply",
		Status:        "success",
		CreatedAt:     time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM replies`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRecentPostsEmpty(t *testing.T) {
	s := newTestStore(t)

	posts, err := s.RecentPosts(10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
