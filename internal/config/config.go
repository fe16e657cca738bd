// Package config loads BusyHub's settings: environment variables for
// credentials and endpoints, plus an optional YAML file for the structured
// parts (ICS sources, classification keywords, digest schedule).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ICSSource is one ICS feed subscription.
type ICSSource struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FileConfig is the YAML-file portion of the configuration.
type FileConfig struct {
	Sources    []ICSSource `yaml:"sources"`
	DigestCron string      `yaml:"digest_cron"`
	Keywords   struct {
		Recurring []string `yaml:"recurring"`
		External  []string `yaml:"external"`
	} `yaml:"keywords"`
}

type Config struct {
	Listen      string
	LogLevel    string
	DatabaseURI string
	UserEmail   string

	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCalendarID   string

	TelegramToken  string
	TelegramChatID string

	File FileConfig
}

// Load reads .env (optional), the environment, and the YAML file named by
// BUSYHUB_CONFIG (optional, defaults to busyhub.yaml when present).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	cfg := &Config{
		Listen:             getEnvOrDefault("LISTEN", ":8080"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		DatabaseURI:        os.Getenv("DATABASE_URI"),
		UserEmail:          os.Getenv("USER_EMAIL"),
		AIAPIKey:           os.Getenv("AI_API_KEY"),
		AIBaseURL:          getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:            getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCalendarID:   getEnvOrDefault("GOOGLE_CALENDAR_ID", "primary"),
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:     os.Getenv("TELEGRAM_CHAT_ID"),
	}

	path := os.Getenv("BUSYHUB_CONFIG")
	if path == "" {
		if _, err := os.Stat("busyhub.yaml"); err == nil {
			path = "busyhub.yaml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg.File); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
