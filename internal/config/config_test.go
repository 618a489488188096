package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 3, cfg.Delivery.Webhook.RetryCount)
	assert.Equal(t, 24*time.Hour, cfg.Survey.SessionTimeout)
	assert.Equal(t, "data/recipients.json", cfg.RecipientsFile())
	assert.Equal(t, "data/faq.json", cfg.FAQFile())
	assert.Equal(t, int64(10*1024*1024), cfg.LogMaxSize())
	assert.EqualError(t, cfg.Validate(), "не указан токен Telegram")
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
telegram:
  token: from-file
  admin_key: secret
delivery:
  whatsapp_number: "233249970393"
  webhook:
    url: https://hooks.example.com/survey
    retry_wait: 250ms
survey:
  session_timeout: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "from-file", cfg.Telegram.Token)
	assert.Equal(t, "secret", cfg.Telegram.AdminKey)
	assert.Equal(t, "233249970393", cfg.Delivery.WhatsAppNumber)
	assert.Equal(t, "https://hooks.example.com/survey", cfg.Delivery.Webhook.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Delivery.Webhook.RetryWait)
	assert.Equal(t, 3, cfg.Delivery.Webhook.RetryCount)
	assert.Equal(t, 2*time.Hour, cfg.Survey.SessionTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyEnv(envMap(map[string]string{
		"TELEGRAM_TOKEN":        "tok",
		"WHATSAPP_NUMBER":       "+233249970393",
		"WEBHOOK_RETRY_COUNT":   "5",
		"WEBHOOK_RETRY_WAIT_MS": "not-a-number",
		"SESSION_TIMEOUT_MIN":   "45",
	}))

	assert.Equal(t, "tok", cfg.Telegram.Token)
	assert.Equal(t, "233249970393", cfg.Delivery.WhatsAppNumber)
	assert.Equal(t, 5, cfg.Delivery.Webhook.RetryCount)
	assert.Equal(t, 500*time.Millisecond, cfg.Delivery.Webhook.RetryWait)
	assert.Equal(t, 45*time.Minute, cfg.Survey.SessionTimeout)
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "env-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.Token)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telegram: [oops"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateWhatsAppNumber(t *testing.T) {
	cfg := NewConfig()
	cfg.Telegram.Token = "tok"
	cfg.Delivery.WhatsAppNumber = "233-24-997"

	assert.Error(t, cfg.Validate())
}
