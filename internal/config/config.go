// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the server process.
type Config struct {
	Addr            string   `yaml:"addr"`
	LogLevel        string   `yaml:"log_level"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	RoomGrace       Duration `yaml:"room_grace_period"`
	DisconnectGrace Duration `yaml:"disconnect_grace_period"`
	TokenTTL        Duration `yaml:"token_ttl"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "5m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		LogLevel:        "info",
		AllowedOrigins:  []string{"*"},
		RoomGrace:       Duration(5 * time.Minute),
		DisconnectGrace: Duration(2 * time.Minute),
		TokenTTL:        Duration(4 * time.Hour),
	}
}

// Load reads the YAML file at path when non-empty, then applies
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.Addr = getEnv("ADDR", cfg.Addr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}
	if err := overrideDuration("ROOM_GRACE_PERIOD", &cfg.RoomGrace); err != nil {
		return nil, err
	}
	if err := overrideDuration("DISCONNECT_GRACE_PERIOD", &cfg.DisconnectGrace); err != nil {
		return nil, err
	}
	if err := overrideDuration("TOKEN_TTL", &cfg.TokenTTL); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func overrideDuration(key string, d *Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*d = Duration(parsed)
	return nil
}
