package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "BOT_THINK_DELAY", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 1200*time.Millisecond, cfg.BotThinkDelay)
	assert.Equal(t, []string{"*"}, cfg.Origins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BOT_THINK_DELAY", "50ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TOKEN_EXPIRE_TIME", "never")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, 50*time.Millisecond, cfg.BotThinkDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())

	ttl, err := cfg.TokenTTL()
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestTokenTTL(t *testing.T) {
	ttl, err := Config{TokenExpire: "30m"}.TokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, ttl)

	_, err = Config{TokenExpire: "soon"}.TokenTTL()
	assert.Error(t, err)

	assert.Equal(t, logrus.InfoLevel, Config{LogLevel: "loud"}.Level())
}
