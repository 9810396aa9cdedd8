package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTwitterEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TWITTER_API_KEY", "k")
	t.Setenv("TWITTER_API_SECRET", "s")
	t.Setenv("TWITTER_ACCESS_TOKEN", "at")
	t.Setenv("TWITTER_ACCESS_TOKEN_SECRET", "as")
}

func TestLoadCredentialsOpenAI(t *testing.T) {
	setTwitterEnv(t)
	t.Setenv("OPENAI_API_KEY", "oai")
	t.Setenv("ANTHROPIC_API_KEY", "")

	creds, err := LoadCredentials(ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, "k", creds.TwitterAPIKey)
	assert.Equal(t, "as", creds.TwitterAccessSecret)
	assert.Equal(t, "oai", creds.OpenAIKey)
}

func TestLoadCredentialsAnthropic(t *testing.T) {
	setTwitterEnv(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "ant")

	creds, err := LoadCredentials(ProviderAnthropic)
	require.NoError(t, err)
	assert.Equal(t, "ant", creds.AnthropicKey)
}

func TestLoadCredentialsMissingProviderKey(t *testing.T) {
	setTwitterEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, err := LoadCredentials(ProviderOpenAI)
	require.Error(t, err)

	var mce *MissingCredentialError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"OPENAI_API_KEY"}, mce.Vars)
}

func TestLoadCredentialsMissingAllSorted(t *testing.T) {
	t.Setenv("TWITTER_API_KEY", "")
	t.Setenv("TWITTER_API_SECRET", "")
	t.Setenv("TWITTER_ACCESS_TOKEN", "")
	t.Setenv("TWITTER_ACCESS_TOKEN_SECRET", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := LoadCredentials(ProviderOpenAI)
	require.Error(t, err)

	var mce *MissingCredentialError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{
		"OPENAI_API_KEY",
		"TWITTER_ACCESS_TOKEN",
		"TWITTER_ACCESS_TOKEN_SECRET",
		"TWITTER_API_KEY",
		"TWITTER_API_SECRET",
	}, mce.Vars)
	assert.Contains(t, err.Error(), "missing required environment variables")
}
