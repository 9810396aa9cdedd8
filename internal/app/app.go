// Package app wires the bot's components and exposes the two flows the
// scheduler (or a one-shot invocation) triggers.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rkahn/voicebot/internal/config"
	"github.com/rkahn/voicebot/internal/dayflag"
	"github.com/rkahn/voicebot/internal/engagement"
	"github.com/rkahn/voicebot/internal/generator"
	"github.com/rkahn/voicebot/internal/imagegen"
	"github.com/rkahn/voicebot/internal/platform"
	"github.com/rkahn/voicebot/internal/publisher"
	"github.com/rkahn/voicebot/internal/record"
	"github.com/rkahn/voicebot/internal/scheduler"
	"github.com/rkahn/voicebot/internal/store"
)

// App holds the wired bot components.
type App struct {
	cfg     *config.Config
	loc     *time.Location
	gen     *generator.Generator
	images  *imagegen.Generator // nil when image posting is unavailable
	flags   dayflag.Store
	pub     *publisher.Publisher
	eng     *engagement.Engager
	archive *store.Store
}

// New builds the application from config and credentials.
func New(cfg *config.Config, creds *config.Credentials) (*App, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", cfg.Timezone, err)
	}

	textProvider, err := generator.NewProvider(cfg.Generation, creds)
	if err != nil {
		return nil, err
	}
	gen := generator.NewWithProvider(textProvider, cfg.Persona, cfg.Generation.CallsPerMinute)

	records := record.NewWriter(cfg.Paths.RecordFile, loc)
	flags := dayflag.NewFileStore(cfg.Paths.DayFlagFile)

	archive, err := store.New(cfg.Paths.StoreFile)
	if err != nil {
		logrus.WithError(err).Warn("Failed to open archive store, continuing without it")
		archive = nil
	}

	var images *imagegen.Generator
	if cfg.Image.Enabled {
		if creds.OpenAIKey == "" {
			logrus.Warn("Image posting enabled but OPENAI_API_KEY is not set, posting text-only")
		} else {
			images = imagegen.New(creds.OpenAIKey, cfg.Image, textProvider)
		}
	}

	client := platform.NewTwitter(creds, cfg.Platform)

	return &App{
		cfg:     cfg,
		loc:     loc,
		gen:     gen,
		images:  images,
		flags:   flags,
		pub:     publisher.New(client, flags, records, archive, loc),
		eng: engagement.New(client, gen, records, archive, loc,
			cfg.Engagement.Query,
			cfg.Engagement.MaxCandidates,
			time.Duration(cfg.Engagement.PacingSeconds)*time.Second),
		archive: archive,
	}, nil
}

// RunPost performs one generate-and-publish flow: time directive, persona
// text, optional once-per-day image, publication with fallback.
func (a *App) RunPost(ctx context.Context) error {
	now := time.Now().In(a.loc)
	text := a.gen.Post(ctx, now)

	var image []byte
	if a.images != nil && imagegen.ShouldInclude(a.flags, now) {
		prompt := a.images.DerivePrompt(ctx, text)
		data, err := a.images.Generate(ctx, prompt)
		if err != nil {
			logrus.WithError(err).Warn("Image generation failed, posting text-only")
		} else {
			image = data
		}
	}

	outcome := a.pub.Publish(ctx, text, image)
	return outcome.Err
}

// RunEngage performs one search-reply-favorite flow.
func (a *App) RunEngage(ctx context.Context) error {
	return a.eng.Run(ctx)
}

// Schedule registers the post and engagement jobs on the scheduler.
func (a *App) Schedule(s *scheduler.Scheduler) error {
	for _, timeStr := range a.cfg.Schedule.PostTimes {
		if err := s.AddDailyJob("post-"+timeStr, timeStr, a.RunPost); err != nil {
			return err
		}
	}
	if a.cfg.Schedule.EngageIntervalHours > 0 {
		if err := s.AddIntervalJob("engage", a.cfg.Schedule.EngageIntervalHours, a.RunEngage); err != nil {
			return err
		}
	}
	return nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.archive != nil {
		return a.archive.Close()
	}
	return nil
}
