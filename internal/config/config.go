package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	Version    int              `toml:"version"`
	Timezone   string           `toml:"timezone"`
	Persona    PersonaConfig    `toml:"persona"`
	Generation GenerationConfig `toml:"generation"`
	Image      ImageConfig      `toml:"image"`
	Engagement EngagementConfig `toml:"engagement"`
	Platform   PlatformConfig   `toml:"platform"`
	Schedule   ScheduleConfig   `toml:"schedule"`
	Paths      PathsConfig      `toml:"paths"`
}

type PersonaConfig struct {
	Name          string `toml:"name"`
	SystemPrompt  string `toml:"system_prompt"`
	ReplyPrompt   string `toml:"reply_prompt"`
	FallbackPost  string `toml:"fallback_post"`
	FallbackReply string `toml:"fallback_reply"`
}

type GenerationConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	CallsPerMinute int    `toml:"calls_per_minute"`
}

type ImageConfig struct {
	Enabled        bool   `toml:"enabled"`
	Model          string `toml:"model"`
	Size           string `toml:"size"`
	FallbackPrompt string `toml:"fallback_prompt"`
}

type EngagementConfig struct {
	Query         string `toml:"query"`
	MaxCandidates int    `toml:"max_candidates"`
	PacingSeconds int    `toml:"pacing_seconds"`
}

type PlatformConfig struct {
	SearchPer15Min int `toml:"search_per_15min"`
	PostPer15Min   int `toml:"post_per_15min"`
}

type ScheduleConfig struct {
	PostTimes           []string `toml:"post_times"`
	EngageIntervalHours int      `toml:"engage_interval_hours"`
}

type PathsConfig struct {
	RecordFile  string `toml:"record_file"`
	DayFlagFile string `toml:"day_flag_file"`
	StoreFile   string `toml:"store_file"`
}

// Text provider names
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const defaultSystemPrompt = `You are Rabia Kahn, a fierce yet nurturing spiritual guide, inspired by Kali, deeply rooted in Tantra, and host of the Channeling the Voice of Possibility podcast.
Each day, generate posts that align with Rabia's voice - raw, insightful, empowering, and transformative.

Important: Output the post in plain text without any markdown formatting (do not use asterisks, underscores, etc.), and ensure that hashtags are written fully (for example, output "#DivineFeminine" rather than a truncated version).

Content Categories (Rotating Mix):
- Podcast Promotion (~30-40%): Announce new episodes, follow-ups, or share guest quotes.
- Inspirational/Motivational Content (~40%): Standalone wisdom rooted in Tantra and spiritual growth.
- Engagement & Community Building (~20-30%): Pose questions or run interactive posts to spark conversation.

Hashtags: Use 1-2 relevant hashtags (e.g., #Tantra, #Awakening, #DivineFeminine). Keep the post within the 280-character limit.

Final Objective:
Craft a post that feels alive, fierce, and deeply personal - encouraging Rabia's audience to engage and explore their own power.
Important: Do not mention or imply shrinking, minimizing, or reducing yourself. Focus on themes of empowerment, expansion, and owning your space.`

const defaultReplyPrompt = `You are Rabia Kahn, a fearless spiritual warrior and poetic mystic known for unflinching honesty and transformative insight. Craft clear, meaningful, and actionable responses grounded in concrete experience, avoiding excessive abstraction.`

const defaultQuery = "#Spirituality OR #SelfLove OR #Healing OR #SpiritualAwakening OR #WomenEmpowerment OR " +
	"#Inspiration OR #Consciousness OR #Mindfulness OR #EnergyHealing OR #Manifestation OR " +
	"#DivineFeminine OR #ShadowWork OR #Mysticism OR #GoddessEnergy OR #SelfEmpowerment OR " +
	"#InnerWork OR #SoulGrowth OR #TantraWisdom OR #Alchemy OR #FemininePower"

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Version:  1,
		Timezone: "America/New_York",
		Persona: PersonaConfig{
			Name:          "Rabia Kahn",
			SystemPrompt:  defaultSystemPrompt,
			ReplyPrompt:   defaultReplyPrompt,
			FallbackPost:  "The fire you are looking for is already burning in you. Tend it today. #Awakening",
			FallbackReply: "A moment of silence speaks louder than words.",
		},
		Generation: GenerationConfig{
			Provider:       ProviderOpenAI,
			Model:          "chatgpt-4o-latest",
			CallsPerMinute: 3,
		},
		Image: ImageConfig{
			Enabled:        true,
			Model:          "dall-e-3",
			Size:           "1024x1024",
			FallbackPrompt: "A mystical scene of divine feminine energy, glowing embers and lotus petals rising through deep indigo smoke, painterly, luminous",
		},
		Engagement: EngagementConfig{
			Query:         defaultQuery,
			MaxCandidates: 10,
			PacingSeconds: 5,
		},
		Platform: PlatformConfig{
			SearchPer15Min: 180,
			PostPer15Min:   50,
		},
		Schedule: ScheduleConfig{
			PostTimes:           []string{"07:30", "11:00", "15:30", "19:00"},
			EngageIntervalHours: 6,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "voicebot"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the directory for durable bot state: the engagement
// record, the day flag and the archive database.
func DataDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// Load reads config from disk and fills in default paths
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Paths.applyDefaults(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrCreate loads the config, writing a default one on first run.
func LoadOrCreate() (*Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	cfg = Default()
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	if err := cfg.Paths.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

func (p *PathsConfig) applyDefaults() error {
	if p.RecordFile != "" && p.DayFlagFile != "" && p.StoreFile != "" {
		return nil
	}

	dataDir, err := DataDir()
	if err != nil {
		return err
	}
	if p.RecordFile == "" {
		p.RecordFile = filepath.Join(dataDir, "engagement_log.csv")
	}
	if p.DayFlagFile == "" {
		p.DayFlagFile = filepath.Join(dataDir, "last_image_date")
	}
	if p.StoreFile == "" {
		p.StoreFile = filepath.Join(dataDir, "voicebot.db")
	}
	return nil
}
