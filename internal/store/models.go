package store

import "time"

// PublishedPost is one archived publish attempt. PostID is empty when the
// submission failed.
type PublishedPost struct {
	PostID   string    `json:"post_id"`
	Text     string    `json:"text"`
	HasImage bool      `json:"has_image"`
	MediaID  string    `json:"media_id"`
	Status   string    `json:"status"`
	PostedAt time.Time `json:"posted_at"`
}

// Reply is one archived reply attempt against a discovered candidate.
type Reply struct {
	CandidateID   string    `json:"candidate_id"`
	CandidateText string    `json:"candidate_text"`
	ReplyText     string    `json:"reply_text"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
