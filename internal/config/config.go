package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	DiscordClientID     string `env:"CLIENT_ID"`
	DiscordClientSecret string `env:"CLIENT_SECRET"`
	DiscordRedirectURI  string `env:"DISCORD_REDIRECT_URI"`
	DiscordBotToken     string `env:"BOT_TOKEN"`

	DsekIssuer       string `env:"DSEK_ISSUER" envDefault:"https://portal.dsek.se/realms/dsek"`
	DsekClientID     string `env:"DSEK_CLIENT_ID"`
	DsekClientSecret string `env:"DSEK_CLIENT_SECRET"`
	DsekRedirectURI  string `env:"DSEK_REDIRECT_URI"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"janus.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

// Load reads configuration from the environment. Presence of provider
// credentials is checked where they are consumed, so a register-only run
// does not need the Dsek values and vice versa.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
