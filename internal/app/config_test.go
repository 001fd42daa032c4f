package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("TORN_CONTAINERS", "")
	if got := GetEnvWithDefault("TORN_CONTAINERS", "display"); got != "display" {
		t.Errorf("Expected default, got %q", got)
	}
	t.Setenv("TORN_CONTAINERS", "   ")
	if got := GetEnvWithDefault("TORN_CONTAINERS", "display"); got != "display" {
		t.Errorf("Expected default for blank value, got %q", got)
	}
	t.Setenv("TORN_CONTAINERS", "bazaar")
	if got := GetEnvWithDefault("TORN_CONTAINERS", "display"); got != "bazaar" {
		t.Errorf("Expected env value, got %q", got)
	}
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "30s")
	if got := GetDurationEnv("REFRESH_INTERVAL", time.Minute); got != 30*time.Second {
		t.Errorf("Expected 30s, got %v", got)
	}
	t.Setenv("REFRESH_INTERVAL", "soon")
	if got := GetDurationEnv("REFRESH_INTERVAL", time.Minute); got != time.Minute {
		t.Errorf("Expected fallback 1m, got %v", got)
	}
	t.Setenv("REFRESH_INTERVAL", "-5s")
	if got := GetDurationEnv("REFRESH_INTERVAL", time.Minute); got != time.Minute {
		t.Errorf("Expected fallback for negative duration, got %v", got)
	}
}

func TestSettingsLoaderKeepsLastGood(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	t.Setenv("SETTINGS_FILE", path)

	if err := os.WriteFile(path, []byte("hideUnderValue: 250\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	load := SettingsLoader()
	if got := load().HideUnderValue; got != 250 {
		t.Fatalf("Expected 250, got %d", got)
	}

	if err := os.WriteFile(path, []byte("hideUnderValue: [not, an, int\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := load().HideUnderValue; got != 250 {
		t.Errorf("Expected last good value 250, got %d", got)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		raw        string
		production bool
		want       zerolog.Level
		wantErr    bool
	}{
		{raw: "", want: zerolog.InfoLevel},
		{raw: "", production: true, want: zerolog.WarnLevel},
		{raw: "DEBUG", want: zerolog.DebugLevel},
		{raw: " warning ", want: zerolog.WarnLevel},
		{raw: "warn", want: zerolog.WarnLevel},
		{raw: "disabled", want: zerolog.Disabled},
		{raw: "chatty", want: zerolog.InfoLevel, wantErr: true},
	}
	for _, tt := range tests {
		got, err := logLevel(tt.raw, tt.production)
		if got != tt.want {
			t.Errorf("logLevel(%q, %v) = %v, want %v", tt.raw, tt.production, got, tt.want)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("logLevel(%q, %v) error = %v, wantErr %v", tt.raw, tt.production, err, tt.wantErr)
		}
	}
}

func TestNewLoggerFormats(t *testing.T) {
	defer func(format string) { zerolog.TimeFieldFormat = format }(zerolog.TimeFieldFormat)

	var prod bytes.Buffer
	logger := newLogger(&prod, true)
	logger.Info().Str("sink", "clipboard").Msg("Export complete")

	var entry map[string]any
	if err := json.Unmarshal(prod.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON line in production, got %q: %v", prod.String(), err)
	}
	if entry["sink"] != "clipboard" || entry["message"] != "Export complete" {
		t.Errorf("Unexpected entry %v", entry)
	}
	if _, ok := entry["time"].(float64); !ok {
		t.Errorf("Expected Unix timestamp, got %v", entry["time"])
	}

	var dev bytes.Buffer
	logger = newLogger(&dev, false)
	logger.Info().Msg("Export complete")
	if strings.HasPrefix(dev.String(), "{") || !strings.Contains(dev.String(), "Export complete") {
		t.Errorf("Expected console output, got %q", dev.String())
	}
}
