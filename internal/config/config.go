// Package config loads process configuration from MARKCHECK_* environment
// variables with sensible local defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "MARKCHECK"

// Config carries every tunable the binaries need.
type Config struct {
	// DBPath is the published index file.
	DBPath string `mapstructure:"db_path"`
	// DBURL, when set, lets the server download the index on first use.
	DBURL string `mapstructure:"db_url"`
	// DataDir is the root the build command walks for source files.
	DataDir string `mapstructure:"data_dir"`
	// Port is the HTTP listen port.
	Port int `mapstructure:"port"`
	// AllowedOrigins is a comma-separated CORS allow-list. Empty means any
	// origin (local fallback only; set it in production).
	AllowedOrigins string `mapstructure:"allowed_origins"`
	// LogLevel selects zap's minimum level: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// Origins returns the parsed allow-list, dropping empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load builds a Config from MARKCHECK_* environment variables and defaults.
// No config file is read; deployments are 12-factor.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("db_path", "data/trademarks.sqlite")
	v.SetDefault("db_url", "")
	v.SetDefault("data_dir", ".")
	v.SetDefault("port", 8080)
	v.SetDefault("allowed_origins", "")
	v.SetDefault("log_level", "info")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	return cfg, nil
}
