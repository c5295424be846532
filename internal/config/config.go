// Package config loads server configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Cards struct {
		// Source selects the card table backend: "file" or "postgres".
		Source string `mapstructure:"source"`
		Path   string `mapstructure:"path"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"cards"`
}

// Load reads the config file at path. Environment variables prefixed
// RIFT_ override file values (RIFT_SERVER_ADDR, RIFT_CARDS_DSN, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("cards.source", "file")
	v.SetDefault("cards.path", "cards.yaml")

	v.SetEnvPrefix("RIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Cards.Source != "file" && cfg.Cards.Source != "postgres" {
		return nil, fmt.Errorf("cards.source must be file or postgres, got %q", cfg.Cards.Source)
	}
	return &cfg, nil
}
