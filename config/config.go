// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultSeed is the world seed used when neither the environment nor the
// game content names one.
const DefaultSeed int32 = 1337

// Config holds process settings.
type Config struct {
	// WorldSeed is nil unless CRAWLCORE_SEED is set.
	WorldSeed *int32 `env:"CRAWLCORE_SEED"`
	SaveDB    string `env:"CRAWLCORE_SAVE_DB"`
	SaveDir   string `env:"CRAWLCORE_SAVE_DIR"`
	Locale    string `env:"CRAWLCORE_LOCALE" envDefault:"en-US"`
	LogLevel  string `env:"CRAWLCORE_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"CRAWLCORE_LOG_FORMAT" envDefault:"text"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Seed picks the world seed: the environment wins, then the content's own
// seed, then DefaultSeed.
func (c Config) Seed(contentSeed int32) int32 {
	switch {
	case c.WorldSeed != nil:
		return *c.WorldSeed
	case contentSeed != 0:
		return contentSeed
	default:
		return DefaultSeed
	}
}
