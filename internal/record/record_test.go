package record

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engagement_log.csv")
	w := NewWriter(path, time.UTC)

	require.NoError(t, w.Append(Entry{Action: ActionPost, Status: StatusSuccess, Message: "post published"}))
	require.NoError(t, w.Append(Entry{Action: ActionReply, Status: StatusError, Message: "boom"}))

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timestamp", "action", "subject_id", "subject_text", "response_text", "status", "message"}, rows[0])
	assert.Equal(t, "post", rows[1][1])
	assert.Equal(t, "error", rows[2][5])
}

func TestAppendFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engagement_log.csv")
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	w := NewWriter(path, loc)

	ts := time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC)
	require.NoError(t, w.Append(Entry{
		Timestamp:    ts,
		Action:       ActionFavorite,
		SubjectID:    "123",
		SubjectText:  "original, with comma",
		ResponseText: "",
		Status:       StatusSuccess,
		Message:      "post favorited",
	}))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, ts.In(loc).Format(time.RFC3339), row[0])
	assert.Equal(t, "favorite", row[1])
	assert.Equal(t, "123", row[2])
	assert.Equal(t, "original, with comma", row[3])
	assert.Equal(t, "success", row[5])
}

func TestLogSwallowsWriteFailure(t *testing.T) {
	// A directory at the record path makes the open fail.
	dir := t.TempDir()
	w := NewWriter(dir, time.UTC)

	assert.NotPanics(t, func() {
		w.Log(Entry{Action: ActionPost, Status: StatusError, Message: "x"})
	})
}
