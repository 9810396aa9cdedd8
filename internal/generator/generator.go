// Package generator produces persona-voiced post and reply text, with
// cleanup, length validation and fallback content so that a scheduled run
// always has something postable.
package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/failsafe-go/failsafe-go/ratelimiter"
	"github.com/sirupsen/logrus"

	"github.com/rkahn/voicebot/internal/config"
	"github.com/rkahn/voicebot/internal/generator/providers"
)

const (
	// MaxPostRunes is the platform's post length limit.
	MaxPostRunes = 280

	maxGenerateAttempts = 5
	postMaxTokens       = 60
	replyMaxTokens      = 80
	samplingTemperature = 0.7
	nucleusTopP         = 1
)

// Models sometimes emit the #DivineFeminine hashtag cut off mid-word.
// Absorb any partial tail so the repair is idempotent.
var divineFeminineRe = regexp.MustCompile(`#DivineFemin(?:i(?:n(?:e)?)?)?`)

// Generator handles persona text generation
type Generator struct {
	provider providers.Provider
	persona  config.PersonaConfig
	limiter  ratelimiter.RateLimiter[any]
}

// NewProvider constructs the text provider selected by config
func NewProvider(genCfg config.GenerationConfig, creds *config.Credentials) (providers.Provider, error) {
	switch genCfg.Provider {
	case config.ProviderOpenAI:
		return providers.NewOpenAIProvider(creds.OpenAIKey, genCfg.Model), nil
	case config.ProviderAnthropic:
		return providers.NewAnthropicProvider(creds.AnthropicKey, genCfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown text provider: %s", genCfg.Provider)
	}
}

// New creates a generator with the provider selected by config
func New(genCfg config.GenerationConfig, persona config.PersonaConfig, creds *config.Credentials) (*Generator, error) {
	provider, err := NewProvider(genCfg, creds)
	if err != nil {
		return nil, err
	}
	return NewWithProvider(provider, persona, genCfg.CallsPerMinute), nil
}

// NewWithProvider creates a generator around an explicit provider.
// callsPerMinute <= 0 disables the rate gate.
func NewWithProvider(provider providers.Provider, persona config.PersonaConfig, callsPerMinute int) *Generator {
	g := &Generator{
		provider: provider,
		persona:  persona,
	}
	if callsPerMinute > 0 {
		g.limiter = ratelimiter.NewBurstyBuilder[any](uint(callsPerMinute), time.Minute).Build()
	}
	return g
}

// Post generates the scheduled post text for the given instant. The text is
// cleaned and regenerated while it exceeds the length limit, bounded at
// five provider calls; after that it is hard-truncated. A provider failure
// or empty result yields the fixed fallback post, never an error.
func (g *Generator) Post(ctx context.Context, now time.Time) string {
	req := providers.Request{
		System:      buildPostSystem(g.persona, now),
		User:        postUserPrompt,
		MaxTokens:   postMaxTokens,
		Temperature: samplingTemperature,
		TopP:        nucleusTopP,
	}

	var text string
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		out, err := g.complete(ctx, req)
		if err != nil || out == "" {
			logrus.WithError(err).Warn("Post generation failed, using fallback text")
			return g.persona.FallbackPost
		}

		text = Clean(out)
		if utf8.RuneCountInString(text) <= MaxPostRunes {
			return text
		}
		logrus.WithFields(logrus.Fields{
			"attempt": attempt,
			"length":  utf8.RuneCountInString(text),
		}).Info("Generated post over length limit, regenerating")
	}

	logrus.Warnf("Post still over %d characters after %d attempts, truncating", MaxPostRunes, maxGenerateAttempts)
	return Truncate(text, MaxPostRunes)
}

// Reply generates a reply to a discovered post. Falls back to the fixed
// reply text on any provider failure.
func (g *Generator) Reply(ctx context.Context, candidateText string) string {
	req := providers.Request{
		System:      g.persona.ReplyPrompt,
		User:        buildReplyUser(candidateText),
		MaxTokens:   replyMaxTokens,
		Temperature: samplingTemperature,
		TopP:        nucleusTopP,
	}

	out, err := g.complete(ctx, req)
	if err != nil || out == "" {
		logrus.WithError(err).Warn("Reply generation failed, using fallback text")
		return g.persona.FallbackReply
	}

	return Truncate(Clean(out), MaxPostRunes)
}

// complete blocks on the rate gate, then calls the provider.
func (g *Generator) complete(ctx context.Context, req providers.Request) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.AcquirePermit(ctx); err != nil {
			return "", fmt.Errorf("waiting for generation capacity: %w", err)
		}
	}
	return g.provider.Complete(ctx, req)
}

// Clean strips markdown emphasis characters and repairs the truncated
// #DivineFeminine hashtag artifact. Clean is idempotent.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "_", "")
	s = divineFeminineRe.ReplaceAllString(s, "#DivineFeminine")
	return strings.TrimSpace(s)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
