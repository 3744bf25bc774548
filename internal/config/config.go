// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Display struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Command string `mapstructure:"command" yaml:"command"`
		Wait    bool   `mapstructure:"wait" yaml:"wait"`
	} `mapstructure:"display" yaml:"display"`
	Output struct {
		Color bool `mapstructure:"color" yaml:"color"`
	} `mapstructure:"output" yaml:"output"`
	Session struct {
		History string `mapstructure:"history" yaml:"history"`
	} `mapstructure:"session" yaml:"session"`
}

// Load reads the configuration from ~/.chartkit/config.yaml and environment
// variables (CHARTKIT_DISPLAY_ENABLED, CHARTKIT_DISPLAY_COMMAND, ...).
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	setDefaults()

	// Environment variable overrides
	viper.SetEnvPrefix("CHARTKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("display.enabled", true)
	viper.SetDefault("display.command", "")
	viper.SetDefault("display.wait", false)
	viper.SetDefault("output.color", true)
	viper.SetDefault("session.history", filepath.Join(configDir(), "history"))
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chartkit"
	}
	return filepath.Join(home, ".chartkit")
}
