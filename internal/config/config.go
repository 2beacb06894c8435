package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at path and returns the validated result.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Summary renders the effective configuration for the startup log, with
// secrets masked.
func (c *Config) Summary() string {
	masked := *c
	if masked.Oracle.APIKey != "" {
		tail := masked.Oracle.APIKey
		if len(tail) > 4 {
			tail = tail[len(tail)-4:]
		}
		masked.Oracle.APIKey = "****" + tail
	}
	out, err := yaml.Marshal(&masked)
	if err != nil {
		return fmt.Sprintf("config summary unavailable: %v", err)
	}
	return string(out)
}

// envOr returns the environment value when set, otherwise fallback.
func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
