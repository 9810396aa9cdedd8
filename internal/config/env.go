package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Credentials holds API credentials sourced from the environment.
type Credentials struct {
	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
	OpenAIKey           string
	AnthropicKey        string
}

// MissingCredentialError reports required environment variables that were
// not set. It is fatal: the run must stop before any network call.
type MissingCredentialError struct {
	Vars []string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

// LoadEnv loads environment variables from local .env files, if present.
// The process environment always wins over file values already set.
func LoadEnv() {
	for _, file := range []string{".env", ".env.local"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			logrus.WithError(err).Warnf("Failed to load %s", file)
		}
	}
}

// LoadCredentials reads API credentials from the environment. The platform
// credentials are always required; the text provider key depends on the
// configured provider.
func LoadCredentials(provider string) (*Credentials, error) {
	creds := &Credentials{
		TwitterAPIKey:       os.Getenv("TWITTER_API_KEY"),
		TwitterAPISecret:    os.Getenv("TWITTER_API_SECRET"),
		TwitterAccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:        os.Getenv("ANTHROPIC_API_KEY"),
	}

	var missing []string
	required := map[string]string{
		"TWITTER_API_KEY":             creds.TwitterAPIKey,
		"TWITTER_API_SECRET":          creds.TwitterAPISecret,
		"TWITTER_ACCESS_TOKEN":        creds.TwitterAccessToken,
		"TWITTER_ACCESS_TOKEN_SECRET": creds.TwitterAccessSecret,
	}
	switch provider {
	case ProviderOpenAI:
		required["OPENAI_API_KEY"] = creds.OpenAIKey
	case ProviderAnthropic:
		required["ANTHROPIC_API_KEY"] = creds.AnthropicKey
	}

	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing) // stable error messages
		return nil, &MissingCredentialError{Vars: missing}
	}

	return creds, nil
}
