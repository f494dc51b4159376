package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestLoadWritesDefaults(t *testing.T) {
	path := tempConfigPath(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Skylight.BaseURL != "https://app.ourskylight.com" {
		t.Errorf("unexpected skylight base url: %q", cfg.Skylight.BaseURL)
	}
	if cfg.Lookup.BaseURL != "https://world.openfoodfacts.org/api/v0" {
		t.Errorf("unexpected lookup base url: %q", cfg.Lookup.BaseURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected log level: %q", cfg.LogLevel)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults not written to disk: %v", err)
	}
}

func TestSaveReloadRoundTrip(t *testing.T) {
	path := tempConfigPath(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.LogLevel = "debug"
	cfg.Skylight.BaseURL = "https://skylight.example"
	cfg.Telegram.Token = "12345:abcdef"
	cfg.Telegram.ChatID = 42

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.LogLevel != "debug" || reloaded.Skylight.BaseURL != "https://skylight.example" {
		t.Errorf("round trip lost values: %+v", reloaded)
	}
	if reloaded.Telegram.Token != "12345:abcdef" || reloaded.Telegram.ChatID != 42 {
		t.Errorf("round trip lost telegram settings: %+v", reloaded.Telegram)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := tempConfigPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SKYLIGHT_BASE_URL", "https://env.example")
	t.Setenv("SKYSCAN_DATA_DIR", "/tmp/env-data")
	t.Setenv("TELEGRAM_CHAT_ID", "777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Skylight.BaseURL != "https://env.example" {
		t.Errorf("env did not override base url: %q", cfg.Skylight.BaseURL)
	}
	if cfg.DataDir != "/tmp/env-data" {
		t.Errorf("env did not override data dir: %q", cfg.DataDir)
	}
	if cfg.Telegram.ChatID != 777 {
		t.Errorf("env did not override chat id: %d", cfg.Telegram.ChatID)
	}
}

func TestGetSetValue(t *testing.T) {
	path := tempConfigPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	if err := SetValue(path, "log_level", "debug"); err != nil {
		t.Fatal(err)
	}
	val, err := GetValue(path, "log_level")
	if err != nil {
		t.Fatal(err)
	}
	if val != "debug" {
		t.Errorf("expected debug, got %v", val)
	}

	if err := SetValue(path, "nope.nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := GetValue(path, "nope.nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGetValueMasksSecrets(t *testing.T) {
	path := tempConfigPath(t)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Telegram.Token = "12345:abcdef"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	val, err := GetValue(path, "telegram.token")
	if err != nil {
		t.Fatal(err)
	}
	if val != "***cdef" {
		t.Errorf("secret not masked: %v", val)
	}
}
