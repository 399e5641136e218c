// Package config loads runtime configuration for a session: model and voice
// settings for the live channel, the store backend, and scheduler timing.
// Values come from defaults, an optional YAML file, then environment
// variables, each layer overriding the previous one. A .env file in the
// working directory is loaded into the environment first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the session configuration.
type Config struct {
	// Live channel settings
	Model        string `yaml:"model"`
	Voice        string `yaml:"voice"`
	Modality     string `yaml:"modality"`
	Endpoint     string `yaml:"endpoint"`
	APIKey       string `yaml:"api_key"`
	SystemPrompt string `yaml:"system_prompt"`

	// Store settings
	StoreDriver string `yaml:"store_driver"` // "memory" or "sqlite"
	StoreDSN    string `yaml:"store_dsn"`    // sqlite file path

	// Scheduler settings
	ReminderCheckPeriod time.Duration `yaml:"reminder_check_period"`
}

// UnmarshalYAML decodes the file form of the config. The check period is
// accepted as a duration string ("90s", "5m") or a bare number of seconds;
// yaml.v3 has no native decoding into time.Duration. Absent keys keep the
// values already set on the receiver.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Model               string `yaml:"model"`
		Voice               string `yaml:"voice"`
		Modality            string `yaml:"modality"`
		Endpoint            string `yaml:"endpoint"`
		APIKey              string `yaml:"api_key"`
		SystemPrompt        string `yaml:"system_prompt"`
		StoreDriver         string `yaml:"store_driver"`
		StoreDSN            string `yaml:"store_dsn"`
		ReminderCheckPeriod string `yaml:"reminder_check_period"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	setIfSet(&c.Model, raw.Model)
	setIfSet(&c.Voice, raw.Voice)
	setIfSet(&c.Modality, raw.Modality)
	setIfSet(&c.Endpoint, raw.Endpoint)
	setIfSet(&c.APIKey, raw.APIKey)
	setIfSet(&c.SystemPrompt, raw.SystemPrompt)
	setIfSet(&c.StoreDriver, raw.StoreDriver)
	setIfSet(&c.StoreDSN, raw.StoreDSN)
	if raw.ReminderCheckPeriod != "" {
		d, err := parsePeriod(raw.ReminderCheckPeriod)
		if err != nil {
			return fmt.Errorf("reminder_check_period: %w", err)
		}
		c.ReminderCheckPeriod = d
	}
	return nil
}

// DefaultConfig returns a config with working defaults for everything except
// the API key.
func DefaultConfig() *Config {
	return &Config{
		Model:               "models/gemini-2.0-flash-exp",
		Voice:               "Aoede",
		Modality:            "AUDIO",
		Endpoint:            "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1alpha.GenerativeService.BidiGenerateContent",
		StoreDriver:         "memory",
		ReminderCheckPeriod: time.Minute,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (skipped
// when path is empty or missing), then environment variables. A .env file in
// the working directory is applied to the environment before the overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file falls through to env overrides.
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Model, "AGRIGURU_MODEL")
	setString(&c.Voice, "AGRIGURU_VOICE")
	setString(&c.Modality, "AGRIGURU_MODALITY")
	setString(&c.Endpoint, "AGRIGURU_ENDPOINT")
	setString(&c.APIKey, "AGRIGURU_API_KEY")
	setString(&c.SystemPrompt, "AGRIGURU_SYSTEM_PROMPT")
	setString(&c.StoreDriver, "AGRIGURU_STORE_DRIVER")
	setString(&c.StoreDSN, "AGRIGURU_STORE_DSN")
	setDuration(&c.ReminderCheckPeriod, "AGRIGURU_REMINDER_PERIOD")
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "memory":
	case "sqlite":
		if c.StoreDSN == "" {
			return fmt.Errorf("config: sqlite store requires a DSN")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.StoreDriver)
	}
	if c.ReminderCheckPeriod <= 0 {
		return fmt.Errorf("config: reminder check period must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setIfSet(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := parsePeriod(v); err == nil {
		*dst = d
	}
}

// parsePeriod accepts a Go duration string or a bare number of seconds.
func parsePeriod(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q", v)
}
