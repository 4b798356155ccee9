package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-tool-middleware/internal/config"
	"lottery-tool-middleware/internal/models"
)

func setRequired(t *testing.T) {
	t.Setenv("LOTTERY_WEBHOOK_URL", "https://lottery.example.com/api/codes")
	t.Setenv("LOTTERY_WEBHOOK_TOKEN", "token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("POWER_AUTOMATE_WEBHOOK_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("WEBHOOK_TIMEOUT", "")
	t.Setenv("WEBHOOK_SOURCES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9732", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, []string{"jinshan"}, cfg.WebhookSources)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Local, cfg.Timezone)
	assert.False(t, cfg.PowerAutomateConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("POWER_AUTOMATE_WEBHOOK_URL", "https://flow.example.com/hook")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8081")
	t.Setenv("WEBHOOK_TIMEOUT", "5s")
	t.Setenv("WEBHOOK_SOURCES", "jinshan, wjx ,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8081", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, []string{"jinshan", "wjx"}, cfg.WebhookSources)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.True(t, cfg.PowerAutomateConfigured())
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_TIMEOUT", "soon")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.WebhookTimeout)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		token string
		want  error
	}{
		{"no url", "", "token", models.ErrMissingLotteryURL},
		{"no token", "https://lottery.example.com", "", models.ErrMissingLotteryToken},
		{"neither", "", "", models.ErrMissingLotteryURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOTTERY_WEBHOOK_URL", tt.url)
			t.Setenv("LOTTERY_WEBHOOK_TOKEN", tt.token)

			cfg, err := config.Load()
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

	_, err := config.Load()
	assert.Error(t, err)
}
