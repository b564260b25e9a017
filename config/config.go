package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram TelegramConfig
	Giphy    GiphyConfig
	GitHub   GitHubConfig
	Bot      BotConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// GiphyConfig holds Giphy API configuration
type GiphyConfig struct {
	APIKey   string
	BaseURL  string
	GifLimit int
}

// GitHubConfig holds GitHub event collection configuration
type GitHubConfig struct {
	Users           []string
	RefreshInterval time.Duration
}

// BotConfig holds session router configuration
type BotConfig struct {
	// Trigger is the substring that makes the bot post a gif into an
	// active chat when it appears in a plain message.
	Trigger string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Giphy    *GiphyConfig
	GitHub   *GitHubConfig
	Bot      *BotConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Giphy:    &cfg.Giphy,
		GitHub:   &cfg.GitHub,
		Bot:      &cfg.Bot,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Giphy: GiphyConfig{
			APIKey:   getEnv("GIPHY_API_KEY", ""),
			BaseURL:  getEnv("GIPHY_BASE_URL", "https://api.giphy.com"),
			GifLimit: getEnvInt("GIPHY_GIF_LIMIT", 30),
		},
		GitHub: GitHubConfig{
			Users:           splitList(getEnv("USERS", "fin-ger,jwuensche")),
			RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 10*time.Minute),
		},
		Bot: BotConfig{
			Trigger: getEnv("SITE_TRIGGER", "gabeln.jetzt"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "gabeln"),
			Port: getEnv("SERVICE_PORT", "8000"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Giphy.APIKey == "" {
		return fmt.Errorf("GIPHY_API_KEY is required")
	}

	if len(c.GitHub.Users) == 0 {
		return fmt.Errorf("USERS is required")
	}

	if c.GitHub.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration gets a duration environment variable with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// splitList splits a comma-separated list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
