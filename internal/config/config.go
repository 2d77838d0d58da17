// Package config resolves runtime settings from defaults, an optional YAML
// file, an optional .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	DBPath               string        `yaml:"db_path"`
	Port                 string        `yaml:"port"`
	Timezone             string        `yaml:"timezone"`
	SecretKey            string        `yaml:"secret_key"`
	CookieSecure         bool          `yaml:"cookie_secure"`
	DefaultLanguage      string        `yaml:"default_language"`
	LogLevel             string        `yaml:"log_level"`
	RedisURL             string        `yaml:"redis_url"`
	NotificationsEnabled bool          `yaml:"notifications_enabled"`
	TelegramBotToken     string        `yaml:"telegram_bot_token"`
	TelegramChatID       string        `yaml:"telegram_chat_id"`
	DispatchInterval     time.Duration `yaml:"dispatch_interval"`
	ReconcileInterval    time.Duration `yaml:"reconcile_interval"`
	DefaultReminderLead  time.Duration `yaml:"default_reminder_lead"`
}

func Defaults() Config {
	return Config{
		DBPath:               filepath.Join("data", "pitchlog.db"),
		Port:                 "8080",
		Timezone:             "UTC",
		DefaultLanguage:      "en",
		LogLevel:             "info",
		NotificationsEnabled: true,
		DispatchInterval:     30 * time.Second,
		ReconcileInterval:    15 * time.Minute,
		DefaultReminderLead:  time.Hour,
	}
}

// Load builds the configuration. yamlPath may be empty. A missing .env file
// is fine; a missing YAML file named explicitly is not.
func Load(yamlPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if yamlPath != "" {
		content, err := os.ReadFile(yamlPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", yamlPath, err)
		}
	}

	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Timezone = getEnv("TZ", cfg.Timezone)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.CookieSecure = getBoolEnv("COOKIE_SECURE", cfg.CookieSecure)
	cfg.DefaultLanguage = getEnv("DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.NotificationsEnabled = getBoolEnv("NOTIFICATIONS_ENABLED", cfg.NotificationsEnabled)
	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", cfg.TelegramChatID)
	cfg.DispatchInterval = getDurationEnv("DISPATCH_INTERVAL", cfg.DispatchInterval)
	cfg.ReconcileInterval = getDurationEnv("RECONCILE_INTERVAL", cfg.ReconcileInterval)
	cfg.DefaultReminderLead = getDurationEnv("DEFAULT_REMINDER_LEAD", cfg.DefaultReminderLead)

	return cfg, nil
}

// Validate checks what every command needs. ValidateServer adds what only
// the HTTP server needs.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid TZ %q: %w", cfg.Timezone, err)
	}
	if cfg.DispatchInterval <= 0 {
		return errors.New("DISPATCH_INTERVAL must be positive")
	}
	if cfg.DefaultReminderLead <= 0 {
		return errors.New("DEFAULT_REMINDER_LEAD must be positive")
	}
	return nil
}

func (cfg Config) ValidateServer() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := ResolveSecretKey(cfg.SecretKey); err != nil {
		return err
	}
	if _, err := ResolvePort(cfg.Port); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone, UTC when it cannot be loaded.
func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

// TelegramConfigured reports whether both Telegram settings are present.
func (cfg Config) TelegramConfigured() bool {
	return cfg.TelegramBotToken != "" && cfg.TelegramChatID != ""
}

func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	parsed, err := strconv.Atoi(port)
	if err != nil || parsed < 1 || parsed > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(parsed), nil
}

func getEnv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
