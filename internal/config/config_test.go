package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_PATH", "PORT", "TZ", "SECRET_KEY", "COOKIE_SECURE", "DEFAULT_LANGUAGE", "LOG_LEVEL",
		"REDIS_URL", "NOTIFICATIONS_ENABLED", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"DISPATCH_INTERVAL", "RECONCILE_INTERVAL", "DEFAULT_REMINDER_LEAD",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg, Defaults())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadLayersYAMLThenEnvironment(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "pitchlog.yaml")
	content := "db_path: /var/lib/pitchlog/journal.db\n" +
		"port: \"9000\"\n" +
		"default_language: ja\n" +
		"dispatch_interval: 1m\n" +
		"notifications_enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	t.Setenv("PORT", "9100")
	t.Setenv("DEFAULT_REMINDER_LEAD", "90m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.DBPath != "/var/lib/pitchlog/journal.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Port != "9100" {
		t.Errorf("Port = %q, want env override 9100", cfg.Port)
	}
	if cfg.DefaultLanguage != "ja" {
		t.Errorf("DefaultLanguage = %q", cfg.DefaultLanguage)
	}
	if cfg.DispatchInterval != time.Minute {
		t.Errorf("DispatchInterval = %s", cfg.DispatchInterval)
	}
	if cfg.NotificationsEnabled {
		t.Error("NotificationsEnabled should come from yaml as false")
	}
	if cfg.DefaultReminderLead != 90*time.Minute {
		t.Errorf("DefaultReminderLead = %s", cfg.DefaultReminderLead)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearConfigEnv(t)
	os.Unsetenv("TELEGRAM_CHAT_ID")
	os.Unsetenv("TELEGRAM_BOT_TOKEN")

	if err := os.WriteFile(".env", []byte("TELEGRAM_CHAT_ID=42\nTELEGRAM_BOT_TOKEN=bot-token\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("TELEGRAM_CHAT_ID")
		os.Unsetenv("TELEGRAM_BOT_TOKEN")
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !cfg.TelegramConfigured() {
		t.Fatalf("expected telegram settings from .env, got %+v", cfg)
	}
}

func TestLoadMissingYAMLFails(t *testing.T) {
	clearConfigEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestResolveSecretKey(t *testing.T) {
	for _, bad := range []string{"", "change_me_in_production", "replace_with_at_least_32_random_characters", "too-short-secret"} {
		if _, err := ResolveSecretKey(bad); err == nil {
			t.Errorf("ResolveSecretKey(%q) expected error", bad)
		}
	}

	valid := "0123456789abcdef0123456789abcdef"
	secret, err := ResolveSecretKey(valid)
	if err != nil {
		t.Fatalf("expected valid secret, got error: %v", err)
	}
	if secret != valid {
		t.Fatalf("expected %q, got %q", valid, secret)
	}
}

func TestResolvePort(t *testing.T) {
	port, err := ResolvePort("")
	if err != nil || port != "8080" {
		t.Fatalf("ResolvePort(\"\") = %q, %v; want 8080", port, err)
	}
	port, err = ResolvePort("9090")
	if err != nil || port != "9090" {
		t.Fatalf("ResolvePort(9090) = %q, %v", port, err)
	}
	for _, bad := range []string{"0", "70000", "not-a-number"} {
		if _, err := ResolvePort(bad); err == nil {
			t.Errorf("ResolvePort(%q) expected error", bad)
		}
	}
}

func TestValidateServerRequiresSecret(t *testing.T) {
	cfg := Defaults()
	if err := cfg.ValidateServer(); err == nil {
		t.Fatal("expected error without SECRET_KEY")
	}
	cfg.SecretKey = "0123456789abcdef0123456789abcdef"
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("ValidateServer() unexpected error: %v", err)
	}

	cfg.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown TZ")
	}
}
