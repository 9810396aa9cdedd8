// Package engagement runs the search -> reply -> favorite flow against
// discovered candidates. Each candidate is processed independently and
// sequentially; a failure at any stage is contained to that stage.
package engagement

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rkahn/voicebot/internal/generator"
	"github.com/rkahn/voicebot/internal/platform"
	"github.com/rkahn/voicebot/internal/record"
	"github.com/rkahn/voicebot/internal/store"
)

// Engager drives one engagement run
type Engager struct {
	client  platform.Client
	gen     *generator.Generator
	records *record.Writer
	archive *store.Store // optional
	loc     *time.Location

	query         string
	maxCandidates int
	pacing        time.Duration
}

// New creates an engager
func New(client platform.Client, gen *generator.Generator, records *record.Writer, archive *store.Store, loc *time.Location, query string, maxCandidates int, pacing time.Duration) *Engager {
	if loc == nil {
		loc = time.UTC
	}
	return &Engager{
		client:        client,
		gen:           gen,
		records:       records,
		archive:       archive,
		loc:           loc,
		query:         query,
		maxCandidates: maxCandidates,
		pacing:        pacing,
	}
}

// Run searches for candidates, shuffles them and engages each in turn with
// a fixed pacing delay between candidates to spread load on the platform.
func (e *Engager) Run(ctx context.Context) error {
	candidates, err := e.client.SearchRecent(ctx, e.query, e.maxCandidates)
	if err != nil {
		return fmt.Errorf("failed to search for candidates: %w", err)
	}
	if len(candidates) == 0 {
		logrus.Info("No posts found to engage with")
		return nil
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	logrus.Infof("Found %d posts to engage with", len(candidates))

	for i, c := range candidates {
		e.engage(ctx, c)

		if i < len(candidates)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.pacing):
			}
		}
	}
	return nil
}

// engage replies to and favorites one candidate, recording each attempt
// independently. A failed reply does not prevent the favorite, and neither
// failure stops the run.
func (e *Engager) engage(ctx context.Context, c platform.Candidate) {
	reply := e.gen.Reply(ctx, c.Text)

	_, err := e.client.CreatePost(ctx, reply, platform.PostOptions{InReplyTo: c.ID})
	status, message := record.StatusSuccess, "reply posted"
	if err != nil {
		status, message = record.StatusError, err.Error()
		logrus.WithError(err).WithField("candidate_id", c.ID).Error("Failed to post reply")
	} else {
		logrus.WithField("candidate_id", c.ID).Info("Replied to post")
	}
	e.records.Log(record.Entry{
		Timestamp:    time.Now().In(e.loc),
		Action:       record.ActionReply,
		SubjectID:    c.ID,
		SubjectText:  c.Text,
		ResponseText: reply,
		Status:       status,
		Message:      message,
	})
	if e.archive != nil {
		aerr := e.archive.SaveReply(&store.Reply{
			CandidateID:   c.ID,
			CandidateText: c.Text,
			ReplyText:     reply,
			Status:        string(status),
			CreatedAt:     time.Now().In(e.loc),
		})
		if aerr != nil {
			logrus.WithError(aerr).Error("Failed to archive reply")
		}
	}

	err = e.client.Favorite(ctx, c.ID)
	status, message = record.StatusSuccess, "post favorited"
	if err != nil {
		status, message = record.StatusError, err.Error()
		logrus.WithError(err).WithField("candidate_id", c.ID).Error("Failed to favorite post")
	} else {
		logrus.WithField("candidate_id", c.ID).Info("Favorited post")
	}
	e.records.Log(record.Entry{
		Timestamp:   time.Now().In(e.loc),
		Action:      record.ActionFavorite,
		SubjectID:   c.ID,
		SubjectText: c.Text,
		Status:      status,
		Message:     message,
	})
}
