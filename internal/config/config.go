// Package config loads the game configuration from file, environment and
// built-in defaults.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/viper"

	"vpet/internal/battle"
	"vpet/internal/hibernation"
	"vpet/internal/logger"
	"vpet/internal/pet"
	"vpet/internal/relay"
	"vpet/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. VPET_STORE_DRIVER
const EnvPrefix = "VPET"

// Config is the complete application configuration
type Config struct {
	Log         logger.Config      `mapstructure:"log"`
	Store       store.Config       `mapstructure:"store"`
	Relay       relay.Config       `mapstructure:"relay"`
	Game        GameConfig         `mapstructure:"game"`
	Pet         pet.Config         `mapstructure:"pet"`
	Battle      battle.Config      `mapstructure:"battle"`
	Hibernation hibernation.Limits `mapstructure:"hibernation"`
}

// GameConfig holds settings for the game loop
type GameConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// Seed fixes the random source; 0 seeds from the clock
	Seed int64 `mapstructure:"seed"`
}

// Default returns the built-in configuration
func Default() Config {
	dir := store.DefaultDir()
	return Config{
		Log:         logger.DefaultConfig(dir),
		Store:       store.DefaultConfig(),
		Relay:       relay.DefaultConfig(),
		Game:        GameConfig{TickInterval: time.Second},
		Pet:         pet.DefaultConfig(),
		Battle:      battle.DefaultConfig(),
		Hibernation: hibernation.DefaultLimits(),
	}
}

// setDefaults registers the keys most often overridden from the
// environment. Viper only maps env vars onto keys it already knows.
func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.environment", def.Log.Environment)
	v.SetDefault("log.encoding", def.Log.Encoding)
	v.SetDefault("log.output_path", def.Log.OutputPath)

	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("store.redis_url", def.Store.RedisURL)
	v.SetDefault("store.prefix", def.Store.Prefix)
	v.SetDefault("store.max_bytes", def.Store.MaxBytes)

	v.SetDefault("relay.url", def.Relay.URL)
	v.SetDefault("relay.timeout", def.Relay.Timeout)

	v.SetDefault("game.tick_interval", def.Game.TickInterval)
	v.SetDefault("game.seed", def.Game.Seed)

	v.SetDefault("battle.turn_delay", def.Battle.TurnDelay)

	v.SetDefault("hibernation.max_days", def.Hibernation.MaxDays)
	v.SetDefault("hibernation.max_pauses_per_day", def.Hibernation.MaxPausesPerDay)
	v.SetDefault("hibernation.can_unpause_anytime", def.Hibernation.CanUnpauseAnytime)
}

// Load reads configuration. An explicit path must exist; otherwise
// config.yaml is searched in the working directory and the state
// directory, and a missing file falls back to defaults.
func Load(path string) (*Config, error) {
	errb := oops.Code("CONFIG_LOAD").In("config")
	cfg := Default()

	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(store.DefaultDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errb.With("path", path).Wrapf(err, "reading config file")
		}
	}

	// unmarshal over the defaults so partial sections keep the rest
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errb.Wrapf(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section
func (c Config) Validate() error {
	if c.Game.TickInterval <= 0 {
		return oops.Code("INVALID_GAME_CONFIG").In("config").
			Errorf("game.tick_interval must be positive, got %s", c.Game.TickInterval)
	}
	for _, err := range []error{
		c.Store.Validate(),
		c.Relay.Validate(),
		c.Pet.Validate(),
		c.Battle.Validate(),
		c.Hibernation.Validate(),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}
