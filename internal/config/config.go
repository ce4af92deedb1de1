// Package config loads CLI defaults from an optional .ganttloom.yaml in
// the home directory and the working directory (project overrides global).
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const configName = ".ganttloom.yaml"

// Config holds chart defaults the CLI applies when flags are not given.
type Config struct {
	RowHeight float64 `mapstructure:"row_height"`
	BarRatio  float64 `mapstructure:"bar_ratio"`
	ViewMode  string  `mapstructure:"view_mode"`
	RTL       bool    `mapstructure:"rtl"`
	ShowGrid  bool    `mapstructure:"show_grid"`
}

// Default returns the built-in chart defaults.
func Default() *Config {
	return &Config{
		RowHeight: 40,
		BarRatio:  0.6,
		ViewMode:  "day",
		ShowGrid:  true,
	}
}

// Load merges the global and project config files over the defaults.
// Missing files are not an error.
func Load() (*Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if err := loadFile(filepath.Join(home, configName), cfg); err != nil {
			return nil, err
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		if err := loadFile(filepath.Join(cwd, configName), cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}
