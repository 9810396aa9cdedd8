// Package record appends one durable audit row per engagement action
// attempt. Writes are best-effort: failures are logged and swallowed so
// logging can never crash the publishing flow.
package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Action identifies the kind of engagement attempt.
type Action string

const (
	ActionPost     Action = "post"
	ActionReply    Action = "reply"
	ActionFavorite Action = "favorite"
)

// Status is the outcome of an attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var header = []string{"timestamp", "action", "subject_id", "subject_text", "response_text", "status", "message"}

// Entry is one action attempt.
type Entry struct {
	Timestamp    time.Time
	Action       Action
	SubjectID    string
	SubjectText  string
	ResponseText string
	Status       Status
	Message      string
}

// Writer appends entries to a CSV file, emitting the header row when the
// file does not exist yet.
type Writer struct {
	path string
	loc  *time.Location
}

// NewWriter creates a record writer. Timestamps are written in loc.
func NewWriter(path string, loc *time.Location) *Writer {
	if loc == nil {
		loc = time.UTC
	}
	return &Writer{path: path, loc: loc}
}

// Append writes one entry, creating the file with a header row first if
// needed.
func (w *Writer) Append(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0700); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	_, statErr := os.Stat(w.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open record file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write record header: %w", err)
		}
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	row := []string{
		ts.In(w.loc).Format(time.RFC3339),
		string(e.Action),
		e.SubjectID,
		e.SubjectText,
		e.ResponseText,
		string(e.Status),
		e.Message,
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("failed to write record row: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush record: %w", err)
	}
	return nil
}

// Log appends an entry and swallows any write failure.
func (w *Writer) Log(e Entry) {
	if err := w.Append(e); err != nil {
		logrus.WithError(err).Error("Failed to log engagement record")
	}
}
