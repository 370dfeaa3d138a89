// Package config reads process settings from the environment (.env is autoloaded by main).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"
)

// Config is the server's environment.
type Config struct {
	Port     string `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	RedisAddr    string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisDB      int    `env:"REDIS_DB,default=0"`
	HistorianOn  bool   `env:"HISTORIAN_ENABLED,default=true"`
	HistorianKey string `env:"HISTORIAN_QUEUE_NAME,default=cardhub_actions"`

	// TokenExpire is the guest token lifetime; "never" or 0 disables expiry.
	TokenExpire string `env:"TOKEN_EXPIRE_TIME,default=72h"`

	BotThinkDelay time.Duration `env:"BOT_THINK_DELAY,default=1200ms"`
	RoomSweep     time.Duration `env:"ROOM_SWEEP_INTERVAL,default=1m"`

	// AllowedOrigins is a comma separated CORS allow list.
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=*"`
}

// Load decodes the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to decode environment: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// TokenTTL parses TokenExpire. Zero means tokens never expire.
func (c Config) TokenTTL() (time.Duration, error) {
	switch c.TokenExpire {
	case "", "0", "never":
		return 0, nil
	}
	d, err := time.ParseDuration(c.TokenExpire)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token expire time: %w", err)
	}
	return d, nil
}

// Origins splits AllowedOrigins.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
