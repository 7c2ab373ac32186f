package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv сбрасывает переменные, которые могут прийти из окружения разработчика
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_TOKEN", "TELEGRAM_API_URL", "TELEGRAM_POLL_TIMEOUT",
		"WEBHOOK", "WEBHOOK_POST_KEY", "WEBHOOK_ENCODING", "WEBHOOK_TIMEOUT",
		"LOG_LEVEL", "LOG_FILE", "HTTP_PORT", "METRICS_ENABLED", "METRICS_PATH",
		"WORKER_ERROR_DELAY", "WORKER_STATS_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `
[telegram]
bot_token = "123:abc"
poll_timeout = 60

[webhook]
url = "https://example.com/hook"
json_key = "prompt"
encoding = "JSON"

[metrics]
enabled = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, 60, cfg.Telegram.PollTimeout)
	assert.Equal(t, DefaultTelegramAPIURL, cfg.Telegram.APIURL)
	assert.Equal(t, "https://example.com/hook", cfg.Webhook.URL)
	assert.Equal(t, "prompt", cfg.Webhook.JSONKey)
	assert.Equal(t, EncodingJSON, cfg.Webhook.Encoding)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
telegram:
  bot_token: "123:abc"
webhook:
  url: "http://localhost:9000/ask"
worker:
  stats_interval: 120
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "http://localhost:9000/ask", cfg.Webhook.URL)
	assert.Equal(t, 120, cfg.Worker.StatsInterval)
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_TOKEN", "token")
	t.Setenv("WEBHOOK", "https://example.com/hook")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Telegram.BotToken)
	assert.Equal(t, 300, cfg.Telegram.PollTimeout)
	assert.Equal(t, DefaultWebhookJSONKey, cfg.Webhook.JSONKey)
	assert.Equal(t, EncodingForm, cfg.Webhook.Encoding)
	assert.Equal(t, 30, cfg.Webhook.Timeout)
	assert.Equal(t, 1, cfg.Worker.ErrorDelay)
	assert.Equal(t, 0, cfg.Worker.StatsInterval)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `
[telegram]
bot_token = "file-token"

[webhook]
url = "https://file.example.com"
json_key = "file_key"
`)
	t.Setenv("APP_TOKEN", "env-token")
	t.Setenv("WEBHOOK_POST_KEY", "env_key")
	t.Setenv("TELEGRAM_POLL_TIMEOUT", "15")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "env_key", cfg.Webhook.JSONKey)
	assert.Equal(t, 15, cfg.Telegram.PollTimeout)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_RequiredValues(t *testing.T) {
	tests := []struct {
		name  string
		token string
		hook  string
	}{
		{name: "missing token", hook: "https://example.com"},
		{name: "missing webhook", token: "token"},
		{name: "relative webhook", token: "token", hook: "/hook"},
		{name: "unsupported scheme", token: "token", hook: "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_TOKEN", tt.token)
			t.Setenv("WEBHOOK", tt.hook)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidEncoding(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_TOKEN", "token")
	t.Setenv("WEBHOOK", "https://example.com")
	t.Setenv("WEBHOOK_ENCODING", "xml")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_BrokenFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", "[telegram\nbot_token = ")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("APP_TOKEN"))
	path := writeFile(t, ".env", "APP_TOKEN=from-dotenv\n")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-dotenv", os.Getenv("APP_TOKEN"))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, LoadEnvFile(""))
}
