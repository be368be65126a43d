package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures configuration values for the scheduler runner.
type Config struct {
	SQLiteDSN string `yaml:"sqlite_dsn"`
	LogLevel  string `yaml:"log_level"`
	// DefaultCapacity overrides the estimated daily capacity when positive.
	// Zero leaves estimation to the capacity estimator.
	DefaultCapacity int `yaml:"default_capacity"`
}

type fileConfig struct {
	SQLiteDSN       *string `yaml:"sqlite_dsn"`
	LogLevel        *string `yaml:"log_level"`
	DefaultCapacity *int    `yaml:"default_capacity"`
}

// Load resolves configuration from an optional YAML file pointed at by
// SCHEDULER_CONFIG_FILE, then applies environment overrides on top.
//
// The loader applies sensible defaults for optional fields while validating
// values and reporting localized error messages for invalid entries.
func Load() (Config, error) {
	cfg := Config{
		SQLiteDSN: "file:scheduler.db?_foreign_keys=on",
		LogLevel:  "info",
	}

	invalid := make([]string, 0, 2)

	if path := strings.TrimSpace(os.Getenv("SCHEDULER_CONFIG_FILE")); path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SCHEDULER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if level := strings.TrimSpace(os.Getenv("SCHEDULER_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if capacityValue := strings.TrimSpace(os.Getenv("SCHEDULER_DEFAULT_CAPACITY")); capacityValue != "" {
		capacity, err := strconv.Atoi(capacityValue)
		if err != nil || capacity < 0 {
			invalid = append(invalid, "SCHEDULER_DEFAULT_CAPACITY")
		} else {
			cfg.DefaultCapacity = capacity
		}
	}

	if cfg.DefaultCapacity < 0 {
		invalid = append(invalid, "default_capacity")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// mergeFile overlays values from a YAML configuration file onto cfg.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルを読み込めません %q: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("設定ファイルの形式が不正です %q: %w", path, err)
	}

	if file.SQLiteDSN != nil && strings.TrimSpace(*file.SQLiteDSN) != "" {
		cfg.SQLiteDSN = strings.TrimSpace(*file.SQLiteDSN)
	}
	if file.LogLevel != nil && strings.TrimSpace(*file.LogLevel) != "" {
		cfg.LogLevel = strings.TrimSpace(*file.LogLevel)
	}
	if file.DefaultCapacity != nil {
		cfg.DefaultCapacity = *file.DefaultCapacity
	}
	return nil
}
