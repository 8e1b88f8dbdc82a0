// Package config loads the engine and enforcement settings from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every tunable of the engine and the enforcement provider.
// Defaults are production-safe; tests construct Config literals directly.
type Config struct {
	// MaxThingSize is the serialized-size budget per thing in bytes.
	// Zero disables the check.
	MaxThingSize int64 `env:"THING_ENGINE_MAX_THING_SIZE" envDefault:"102400"`

	// SizeBandFactor widens the band above the limit in which the exact
	// serialization decides instead of the cheap upper bound.
	SizeBandFactor float64 `env:"THING_ENGINE_SIZE_BAND_FACTOR" envDefault:"2.0"`

	// ValidationTimeout bounds the pre-commit validation stage per command.
	ValidationTimeout time.Duration `env:"THING_ENGINE_VALIDATION_TIMEOUT" envDefault:"30s"`

	// EnforcerCacheTTL evicts cached enforcers after this duration.
	EnforcerCacheTTL time.Duration `env:"THING_ENGINE_ENFORCER_CACHE_TTL" envDefault:"10m"`

	// EnforcerCacheCapacity caps the number of cached enforcers.
	EnforcerCacheCapacity int `env:"THING_ENGINE_ENFORCER_CACHE_CAPACITY" envDefault:"20000"`

	// EnforcerGetTimeout bounds one enforcer lookup including a coalesced load.
	EnforcerGetTimeout time.Duration `env:"THING_ENGINE_ENFORCER_GET_TIMEOUT" envDefault:"10s"`

	// EnforcerLoadTimeout bounds one backing policy load.
	EnforcerLoadTimeout time.Duration `env:"THING_ENGINE_ENFORCER_LOAD_TIMEOUT" envDefault:"60s"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("loading config from environment: %w", err)
	}

	return cfg, nil
}

// MustLoad is Load panicking on error. Intended for main functions.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	return cfg
}
