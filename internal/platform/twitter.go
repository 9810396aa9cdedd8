package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/failsafe-go/failsafe-go/ratelimiter"

	"github.com/rkahn/voicebot/internal/config"
)

const (
	defaultAPIBase    = "https://api.twitter.com"
	defaultUploadBase = "https://upload.twitter.com"

	rateWindow = 15 * time.Minute
)

// Twitter implements Client against the Twitter REST API, signing requests
// with OAuth 1.0a user credentials. Search and post calls block on local
// rate gates sized to the platform's published windows; callers may be
// suspended until capacity is available.
type Twitter struct {
	httpClient *http.Client
	apiBase    string
	uploadBase string

	searchGate ratelimiter.RateLimiter[any]
	postGate   ratelimiter.RateLimiter[any]
}

// NewTwitter creates a signed Twitter client
func NewTwitter(creds *config.Credentials, cfg config.PlatformConfig) *Twitter {
	oc := oauth1.NewConfig(creds.TwitterAPIKey, creds.TwitterAPISecret)
	token := oauth1.NewToken(creds.TwitterAccessToken, creds.TwitterAccessSecret)

	httpClient := oc.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second

	t := &Twitter{
		httpClient: httpClient,
		apiBase:    defaultAPIBase,
		uploadBase: defaultUploadBase,
	}
	if cfg.SearchPer15Min > 0 {
		t.searchGate = ratelimiter.NewBurstyBuilder[any](uint(cfg.SearchPer15Min), rateWindow).Build()
	}
	if cfg.PostPer15Min > 0 {
		t.postGate = ratelimiter.NewBurstyBuilder[any](uint(cfg.PostPer15Min), rateWindow).Build()
	}
	return t
}

// SearchRecent queries the recent-search endpoint
func (t *Twitter) SearchRecent(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	if err := acquire(ctx, t.searchGate); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("tweet.fields", "id,text,author_id")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		t.apiBase+"/2/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	body, err := t.do(req)
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []Candidate `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return result.Data, nil
}

// CreatePost submits a post, optionally as a reply and/or with media
func (t *Twitter) CreatePost(ctx context.Context, text string, opts PostOptions) (Post, error) {
	if err := acquire(ctx, t.postGate); err != nil {
		return Post{}, err
	}

	payload := map[string]any{"text": text}
	if opts.InReplyTo != "" {
		payload["reply"] = map[string]string{"in_reply_to_tweet_id": opts.InReplyTo}
	}
	if len(opts.MediaIDs) > 0 {
		payload["media"] = map[string][]string{"media_ids": opts.MediaIDs}
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return Post{}, fmt.Errorf("failed to marshal post payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.apiBase+"/2/tweets", bytes.NewReader(jsonBody))
	if err != nil {
		return Post{}, fmt.Errorf("failed to create post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := t.do(req)
	if err != nil {
		return Post{}, err
	}

	var result struct {
		Data Post `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return Post{}, fmt.Errorf("failed to parse post response: %w", err)
	}
	return result.Data, nil
}

// UploadMedia uploads raw image bytes and returns the media ID
func (t *Twitter) UploadMedia(ctx context.Context, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("media", "image.png")
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.uploadBase+"/1.1/media/upload.json", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := t.do(req)
	if err != nil {
		return "", err
	}

	var result struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if result.MediaIDString == "" {
		return "", fmt.Errorf("upload response missing media id")
	}
	return result.MediaIDString, nil
}

// Favorite likes a post via the v1.1 favorites endpoint
func (t *Twitter) Favorite(ctx context.Context, postID string) error {
	params := url.Values{}
	params.Set("id", postID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.apiBase+"/1.1/favorites/create.json?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create favorite request: %w", err)
	}

	_, err = t.do(req)
	return err
}

// do executes a request and returns the body, mapping non-2xx responses to
// StatusError.
func (t *Twitter) do(req *http.Request) ([]byte, error) {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("platform request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func acquire(ctx context.Context, gate ratelimiter.RateLimiter[any]) error {
	if gate == nil {
		return nil
	}
	if err := gate.AcquirePermit(ctx); err != nil {
		return fmt.Errorf("waiting for platform capacity: %w", err)
	}
	return nil
}
