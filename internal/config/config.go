package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config keeps runtime settings for the planner.
type Config struct {
	TelegramToken string `yaml:"telegram_token" env:"TELEGRAM_TOKEN"`
	OwnerChatID   int64  `yaml:"owner_chat_id" env:"OWNER_CHAT_ID"`
	DatabaseURL   string `yaml:"database_url" env:"DATABASE_URL" env-default:"momentum.db"`
	LogLevel      string `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	Timezone      string `yaml:"timezone" env:"TIMEZONE" env-default:"Local"`
	RolloverTime  string `yaml:"rollover_time" env:"ROLLOVER_TIME" env-default:"00:05"`
	ReportTime    string `yaml:"report_time" env:"REPORT_TIME" env-default:"08:00"`
	PremiumOwned  bool   `yaml:"premium_owned" env:"PREMIUM_OWNED" env-default:"false"`
}

// Load reads configuration from the yaml file at path, with environment
// variables taking precedence. A missing file falls back to the environment.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
	}
	return cfg, nil
}

// ValidateBot checks the settings the Telegram front end cannot run without.
func (c Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.OwnerChatID == 0 {
		return fmt.Errorf("OWNER_CHAT_ID is required")
	}
	return nil
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
