// Package platform talks to the social platform's REST API.
package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Candidate is a discovered third-party post eligible for engagement.
type Candidate struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
}

// Post is a created post confirmation.
type Post struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PostOptions carries the optional parts of a post submission.
type PostOptions struct {
	InReplyTo string
	MediaIDs  []string
}

// Client is the capability interface for the social platform.
type Client interface {
	SearchRecent(ctx context.Context, query string, maxResults int) ([]Candidate, error)
	CreatePost(ctx context.Context, text string, opts PostOptions) (Post, error)
	UploadMedia(ctx context.Context, data []byte) (string, error)
	Favorite(ctx context.Context, postID string) error
}

// StatusError is a non-2xx platform response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("platform returned status %d: %s", e.Code, e.Body)
}

// IsRateLimited reports whether err is an HTTP 429 platform response.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusTooManyRequests
}
