package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines converter configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	Convert ConvertConfig `yaml:"convert"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type ConvertConfig struct {
	AskBeforeOverwrite bool   `yaml:"ask_before_overwrite"`
	LockOnExport       bool   `yaml:"lock_on_export"`
	Backup             bool   `yaml:"backup"`
	StylesPath         string `yaml:"styles_path"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "novx-history.db",
		},
		Convert: ConvertConfig{
			AskBeforeOverwrite: true,
			Backup:             true,
		},
	}

	if path := os.Getenv("NOVX_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if level := os.Getenv("NOVX_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("NOVX_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if path := os.Getenv("NOVX_HISTORY_PATH"); path != "" {
		cfg.History.Path = path
	}
	if path := os.Getenv("NOVX_STYLES_PATH"); path != "" {
		cfg.Convert.StylesPath = path
	}

	flags := []struct {
		env string
		dst *bool
	}{
		{"NOVX_HISTORY_ENABLED", &cfg.History.Enabled},
		{"NOVX_ASK_BEFORE_OVERWRITE", &cfg.Convert.AskBeforeOverwrite},
		{"NOVX_LOCK_ON_EXPORT", &cfg.Convert.LockOnExport},
		{"NOVX_BACKUP", &cfg.Convert.Backup},
	}
	for _, f := range flags {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dst = b
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
