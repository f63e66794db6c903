package config

import (
	"os"
	"testing"
)

const sampleConfig = `
log:
  level: debug
api:
  base_url: https://api.example.com/api
  timeout_seconds: 15
auth:
  token_url: https://id.example.com/token
  refresh_token: rt-123
  expiry_leeway_seconds: 45
pomodoro:
  work_minutes: 50
`

// TestLoad verifies that Load reads the file named by CONFIG_PATH and applies
// defaults for unset keys.
func TestLoad(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com/api" {
		t.Fatalf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 15 {
		t.Fatalf("unexpected timeout: %d", cfg.API.TimeoutSeconds)
	}
	if cfg.Auth.RefreshToken != "rt-123" {
		t.Fatalf("refresh token not parsed: %q", cfg.Auth.RefreshToken)
	}
	if cfg.Auth.ExpiryLeewaySecond != 45 {
		t.Fatalf("unexpected leeway: %d", cfg.Auth.ExpiryLeewaySecond)
	}
	if cfg.Pomodoro.WorkMinutes != 50 {
		t.Fatalf("unexpected work minutes: %d", cfg.Pomodoro.WorkMinutes)
	}
	// defaults
	if cfg.Pomodoro.ShortBreakMinutes != 5 {
		t.Fatalf("default short break not applied: %d", cfg.Pomodoro.ShortBreakMinutes)
	}
	if cfg.History.Path != "studybuddy.db" {
		t.Fatalf("default history path not applied: %s", cfg.History.Path)
	}
}

// TestLoadMissingFile verifies that a missing config file falls back to defaults.
func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("default base url not applied: %s", cfg.API.BaseURL)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("default log level not applied: %s", cfg.Log.Level)
	}
}
