package publisher

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkahn/voicebot/internal/dayflag"
	"github.com/rkahn/voicebot/internal/platform"
	"github.com/rkahn/voicebot/internal/record"
)

// fakeClient scripts CreatePost outcomes per call and records every request.
type fakeClient struct {
	uploadErr error
	uploadID  string

	postErrs  []error
	postCalls []platform.PostOptions
}

func (f *fakeClient) SearchRecent(ctx context.Context, query string, maxResults int) ([]platform.Candidate, error) {
	return nil, nil
}

func (f *fakeClient) UploadMedia(ctx context.Context, data []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if f.uploadID == "" {
		return "media-1", nil
	}
	return f.uploadID, nil
}

func (f *fakeClient) CreatePost(ctx context.Context, text string, opts platform.PostOptions) (platform.Post, error) {
	i := len(f.postCalls)
	f.postCalls = append(f.postCalls, opts)
	if i < len(f.postErrs) && f.postErrs[i] != nil {
		return platform.Post{}, f.postErrs[i]
	}
	return platform.Post{ID: fmt.Sprintf("p%d", i), Text: text}, nil
}

func (f *fakeClient) Favorite(ctx context.Context, postID string) error { return nil }

func rateLimited() error {
	return &platform.StatusError{Code: http.StatusTooManyRequests, Body: "slow down"}
}

func newTestPublisher(t *testing.T, client platform.Client, flags dayflag.Store) *Publisher {
	t.Helper()
	records := record.NewWriter(filepath.Join(t.TempDir(), "log.csv"), time.UTC)
	p := New(client, flags, records, nil, time.UTC)
	p.retryBaseDelay = time.Millisecond
	return p
}

func TestPublishWithImageSuccess(t *testing.T) {
	client := &fakeClient{}
	flags := &dayflag.Memory{}
	p := newTestPublisher(t, client, flags)

	out := p.Publish(context.Background(), "hello", []byte("png"))
	require.NoError(t, out.Err)
	assert.True(t, out.HasImage)
	assert.Equal(t, "p0", out.Post.ID)

	require.Len(t, client.postCalls, 1)
	assert.Equal(t, []string{"media-1"}, client.postCalls[0].MediaIDs)

	_, ok, err := flags.LastImageDate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPublishTextOnly(t *testing.T) {
	client := &fakeClient{}
	flags := &dayflag.Memory{}
	p := newTestPublisher(t, client, flags)

	out := p.Publish(context.Background(), "hello", nil)
	require.NoError(t, out.Err)
	assert.False(t, out.HasImage)

	require.Len(t, client.postCalls, 1)
	assert.Empty(t, client.postCalls[0].MediaIDs)

	_, ok, err := flags.LastImageDate()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublishSustainedRateLimitFallsBackTextOnly(t *testing.T) {
	client := &fakeClient{
		postErrs: []error{rateLimited(), rateLimited(), rateLimited()},
	}
	flags := &dayflag.Memory{}
	p := newTestPublisher(t, client, flags)

	out := p.Publish(context.Background(), "hello", []byte("png"))
	require.NoError(t, out.Err)
	assert.False(t, out.HasImage)

	// Three media attempts, then one text-only fallback.
	require.Len(t, client.postCalls, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{"media-1"}, client.postCalls[i].MediaIDs)
	}
	assert.Empty(t, client.postCalls[3].MediaIDs)

	_, ok, err := flags.LastImageDate()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublishRateLimitThenSuccess(t *testing.T) {
	client := &fakeClient{
		postErrs: []error{rateLimited(), nil},
	}
	flags := &dayflag.Memory{}
	p := newTestPublisher(t, client, flags)

	out := p.Publish(context.Background(), "hello", []byte("png"))
	require.NoError(t, out.Err)
	assert.True(t, out.HasImage)
	require.Len(t, client.postCalls, 2)

	_, ok, err := flags.LastImageDate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPublishNonRateLimitAbortsMediaRetries(t *testing.T) {
	client := &fakeClient{
		postErrs: []error{&platform.StatusError{Code: http.StatusForbidden, Body: "nope"}},
	}
	flags := &dayflag.Memory{}
	p := newTestPublisher(t, client, flags)

	out := p.Publish(context.Background(), "hello", []byte("png"))
	require.NoError(t, out.Err)
	assert.False(t, out.HasImage)

	// One media attempt, then the text-only fallback.
	require.Len(t, client.postCalls, 2)
	assert.Equal(t, []string{"media-1"}, client.postCalls[0].MediaIDs)
	assert.Empty(t, client.postCalls[1].MediaIDs)
}

func TestPublishUploadFailureDegradesToTextOnly(t *testing.T) {
	client := &fakeClient{uploadErr: fmt.Errorf("upload refused")}
	flags := &dayflag.Memory{}
	p := newTestPublisher(t, client, flags)

	out := p.Publish(context.Background(), "hello", []byte("png"))
	require.NoError(t, out.Err)
	assert.False(t, out.HasImage)

	require.Len(t, client.postCalls, 1)
	assert.Empty(t, client.postCalls[0].MediaIDs)
}

func TestPublishReportsTerminalFailure(t *testing.T) {
	client := &fakeClient{postErrs: []error{fmt.Errorf("down"), fmt.Errorf("still down")}}
	flags := &dayflag.Memory{}
	p := newTestPublisher(t, client, flags)

	out := p.Publish(context.Background(), "hello", []byte("png"))
	assert.Error(t, out.Err)
	assert.False(t, out.HasImage)

	_, ok, err := flags.LastImageDate()
	require.NoError(t, err)
	assert.False(t, ok)
}
