// Package config loads runtime configuration from a YAML file, environment
// variables (INGEST_ prefix) and command-line flags, in increasing order of
// precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds everything tunable at startup.
type Config struct {
	ListenAddr     string `mapstructure:"listen_addr"`
	CataloguePath  string `mapstructure:"catalogue_path"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	MinTextChars   int    `mapstructure:"min_text_chars"`
	PreviewChars   int    `mapstructure:"preview_chars"`
}

// Load builds a Config. cfgFile may be empty (config.yaml in the working
// directory is tried, missing file is fine); flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", "0.0.0.0:3000")
	v.SetDefault("catalogue_path", "")
	v.SetDefault("max_upload_bytes", int64(10<<20))
	v.SetDefault("min_text_chars", 50)
	v.SetDefault("preview_chars", 500)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ingest")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
