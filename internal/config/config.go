// Package config loads stagehand configuration: a YAML file under
// .stagehand/, overridable by STAGEHAND_* environment variables and
// command-line flags (bound by cmd/stagehand via viper).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Dir is the per-project configuration directory.
const Dir = ".stagehand"

// GatewayConfig selects and parameterizes the persistence gateway.
type GatewayConfig struct {
	// Kind is "file" (JSONL store) or "http" (remote board service).
	Kind string `mapstructure:"kind" yaml:"kind" json:"kind"`
	// Path is the JSONL file for the file gateway.
	Path string `mapstructure:"path" yaml:"path" json:"path"`
	// Endpoint is the base URL for the http gateway.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
}

// Config is the resolved stagehand configuration.
type Config struct {
	Gateway    GatewayConfig `mapstructure:"gateway" yaml:"gateway" json:"gateway"`
	StagesFile string        `mapstructure:"stages_file" yaml:"stages_file" json:"stages_file"`
	Actor      string        `mapstructure:"actor" yaml:"actor" json:"actor"`
	Theme      string        `mapstructure:"theme" yaml:"theme" json:"theme"`
}

// Load reads configuration for the project rooted at dir. A missing config
// file yields defaults, not an error.
func Load(v *viper.Viper, dir string) (*Config, error) {
	setDefaults(v, dir)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(dir, Dir))
	v.SetEnvPrefix("STAGEHAND")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Gateway.Kind != "file" && cfg.Gateway.Kind != "http" {
		return nil, fmt.Errorf("unknown gateway kind %q (want file or http)", cfg.Gateway.Kind)
	}
	if cfg.Gateway.Kind == "http" && cfg.Gateway.Endpoint == "" {
		return nil, fmt.Errorf("gateway kind is http but no endpoint is configured")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("gateway.kind", "file")
	v.SetDefault("gateway.path", filepath.Join(dir, Dir, "items.jsonl"))
	v.SetDefault("stages_file", filepath.Join(dir, Dir, "stages.yaml"))
	v.SetDefault("actor", defaultActor())
	v.SetDefault("theme", "default")
}

func defaultActor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
