// Package imagegen decides whether the day's post carries an image and
// produces the image bytes. Every failure here degrades the run to a
// text-only publication, never an abort.
package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"

	"github.com/rkahn/voicebot/internal/config"
	"github.com/rkahn/voicebot/internal/dayflag"
	"github.com/rkahn/voicebot/internal/generator/providers"
)

// Derived prompts shorter than this are treated as implausible and replaced
// by the fixed fallback prompt.
const minPromptRunes = 10

const derivePromptSystem = "You write prompts for an image generation model. " +
	"Given a social media post, respond with one short sentence describing a mystical visual scene keyed to the post's theme. " +
	"Respond with the description only."

// Generator produces one square image per prompt via the OpenAI Images API
type Generator struct {
	client         openai.Client
	httpClient     *http.Client
	textProvider   providers.Provider
	model          string
	size           string
	fallbackPrompt string
}

// New creates an image generator
func New(apiKey string, cfg config.ImageConfig, textProvider providers.Provider) *Generator {
	return &Generator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		textProvider:   textProvider,
		model:          cfg.Model,
		size:           cfg.Size,
		fallbackPrompt: cfg.FallbackPrompt,
	}
}

// ShouldInclude reports whether today's post should carry an image: true
// unless an image was already posted on today's date. A flag read failure
// skips the image rather than risking a duplicate.
func ShouldInclude(flags dayflag.Store, today time.Time) bool {
	last, ok, err := flags.LastImageDate()
	if err != nil {
		logrus.WithError(err).Warn("Failed to read day flag, skipping image")
		return false
	}
	if !ok {
		return true
	}
	return !dayflag.SameDay(last, today)
}

// DerivePrompt asks the text service for a short visual description keyed
// to the post's theme. Falls back to the fixed prompt if the result is
// empty or implausibly short.
func (g *Generator) DerivePrompt(ctx context.Context, postText string) string {
	req := providers.Request{
		System:      derivePromptSystem,
		User:        fmt.Sprintf("Post:\n\n%s", postText),
		MaxTokens:   60,
		Temperature: 0.7,
		TopP:        1,
	}

	out, err := g.textProvider.Complete(ctx, req)
	if err != nil {
		logrus.WithError(err).Warn("Image prompt derivation failed, using fallback prompt")
		return g.fallbackPrompt
	}

	out = strings.TrimSpace(out)
	if utf8.RuneCountInString(out) < minPromptRunes {
		logrus.WithField("prompt", out).Warn("Derived image prompt implausibly short, using fallback prompt")
		return g.fallbackPrompt
	}
	return out
}

// Generate requests exactly one square image for the prompt and fetches
// its bytes from the returned URL.
func (g *Generator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(g.model),
		N:      openai.Int(1),
		Size:   sizeParam(g.size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call image API: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("image API returned no image URL")
	}

	return g.fetch(ctx, resp.Data[0].URL)
}

func (g *Generator) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetch request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image bytes: %w", err)
	}
	return data, nil
}

func sizeParam(size string) openai.ImageGenerateParamsSize {
	switch size {
	case "256x256":
		return openai.ImageGenerateParamsSize256x256
	case "512x512":
		return openai.ImageGenerateParamsSize512x512
	default:
		return openai.ImageGenerateParamsSize1024x1024
	}
}
