// Package publisher submits posts to the platform with bounded
// retry-with-backoff on rate limiting and fallback to text-only on any
// media failure. Exactly one successful post per invocation, or a logged
// failure.
package publisher

import (
	"context"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/sirupsen/logrus"

	"github.com/rkahn/voicebot/internal/dayflag"
	"github.com/rkahn/voicebot/internal/platform"
	"github.com/rkahn/voicebot/internal/record"
	"github.com/rkahn/voicebot/internal/store"
)

const (
	// Publish retries apply only to HTTP 429; the delay doubles from the
	// base between attempts.
	defaultRetryBaseDelay = 10 * time.Second
	maxMediaAttempts      = 3
)

// Publisher submits posts and records outcomes
type Publisher struct {
	client  platform.Client
	flags   dayflag.Store
	records *record.Writer
	archive *store.Store // optional
	loc     *time.Location

	retryBaseDelay time.Duration
}

// Outcome describes one publish invocation.
type Outcome struct {
	Post     platform.Post
	HasImage bool
	Err      error
}

// New creates a publisher. archive may be nil.
func New(client platform.Client, flags dayflag.Store, records *record.Writer, archive *store.Store, loc *time.Location) *Publisher {
	if loc == nil {
		loc = time.UTC
	}
	return &Publisher{
		client:         client,
		flags:          flags,
		records:        records,
		archive:        archive,
		loc:            loc,
		retryBaseDelay: defaultRetryBaseDelay,
	}
}

// Publish submits text with an optional image. With image bytes present it
// uploads the media and retries the submission on sustained rate limiting;
// any media failure degrades to a single text-only submission. The day
// flag is advanced only after a successful image-bearing post. One record
// row is written regardless of outcome.
func (p *Publisher) Publish(ctx context.Context, text string, image []byte) Outcome {
	var mediaID string
	if len(image) > 0 {
		id, err := p.client.UploadMedia(ctx, image)
		if err != nil {
			logrus.WithError(err).Warn("Media upload failed, posting text-only")
		} else {
			mediaID = id
		}
	}

	var posted platform.Post
	var err error
	hasImage := false

	if mediaID != "" {
		posted, err = p.publishWithMedia(ctx, text, mediaID)
		if err != nil {
			logrus.WithError(err).Warn("Image post failed, falling back to text-only")
			mediaID = ""
			posted, err = p.client.CreatePost(ctx, text, platform.PostOptions{})
		} else {
			hasImage = true
		}
	} else {
		posted, err = p.client.CreatePost(ctx, text, platform.PostOptions{})
	}

	now := time.Now().In(p.loc)

	if err == nil && hasImage {
		if ferr := p.flags.SetLastImageDate(now); ferr != nil {
			logrus.WithError(ferr).Error("Failed to update day flag")
		}
	}

	status, message := record.StatusSuccess, "post published"
	if err != nil {
		status, message = record.StatusError, err.Error()
		logrus.WithError(err).Error("Failed to publish post")
	} else {
		logrus.WithFields(logrus.Fields{
			"post_id":   posted.ID,
			"has_image": hasImage,
		}).Info("Post published")
	}

	p.records.Log(record.Entry{
		Timestamp:    now,
		Action:       record.ActionPost,
		SubjectID:    posted.ID,
		ResponseText: text,
		Status:       status,
		Message:      message,
	})

	if p.archive != nil {
		aerr := p.archive.SavePublishedPost(&store.PublishedPost{
			PostID:   posted.ID,
			Text:     text,
			HasImage: hasImage,
			MediaID:  mediaID,
			Status:   string(status),
			PostedAt: now,
		})
		if aerr != nil {
			logrus.WithError(aerr).Error("Failed to archive post")
		}
	}

	return Outcome{Post: posted, HasImage: hasImage, Err: err}
}

// publishWithMedia attempts the image-bearing submission up to three times
// total, backing off only on 429 responses; any other failure aborts the
// media path immediately.
func (p *Publisher) publishWithMedia(ctx context.Context, text, mediaID string) (platform.Post, error) {
	policy := retrypolicy.NewBuilder[platform.Post]().
		WithBackoff(p.retryBaseDelay, p.retryBaseDelay*4).
		WithMaxRetries(maxMediaAttempts - 1).
		HandleIf(func(_ platform.Post, err error) bool {
			return platform.IsRateLimited(err)
		}).
		ReturnLastFailure().
		Build()

	return failsafe.With(policy).WithContext(ctx).Get(func() (platform.Post, error) {
		return p.client.CreatePost(ctx, text, platform.PostOptions{MediaIDs: []string{mediaID}})
	})
}
