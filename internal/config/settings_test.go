package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"torn_item_value/internal/export"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if s != DefaultSettings() {
		t.Errorf("Expected defaults %+v, got %+v", DefaultSettings(), s)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected missing file to be ignored, got %v", err)
	}
	if s != DefaultSettings() {
		t.Errorf("Expected defaults, got %+v", s)
	}
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "hideUnderValue: 500\ndataOrder: name,value\ndataFormat: json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}
	t.Setenv("BANKVALUE_SHOWDATATITLES", "false")
	t.Setenv("BANKVALUE_HIDEUNDERVALUE", "750")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if s.HideUnderValue != 750 {
		t.Errorf("Expected env to override file threshold, got %d", s.HideUnderValue)
	}
	if s.DataOrder != "name,value" {
		t.Errorf("Expected data order from file, got %q", s.DataOrder)
	}
	if s.ShowDataTitles {
		t.Error("Expected showDataTitles=false from env")
	}
	if !s.ShowExportButton {
		t.Error("Expected showExportButton default true")
	}

	cfg := s.ExportConfig()
	if cfg.Format != export.FormatJSON {
		t.Errorf("Expected JSON format, got %v", cfg.Format)
	}
	if !slices.Equal(cfg.FieldOrder, []string{"name", "value"}) {
		t.Errorf("Unexpected field order %q", cfg.FieldOrder)
	}
	if cfg.ValueThreshold != 750 || cfg.IncludeHeader {
		t.Errorf("Unexpected export config %+v", cfg)
	}
}

func TestExportConfigUnknownFormat(t *testing.T) {
	s := DefaultSettings()
	s.DataFormat = "xml"
	if got := s.ExportConfig().Format; got != export.FormatCSV {
		t.Errorf("Expected CSV fallback, got %v", got)
	}
}

func TestDefaultSettingsMatchExportDefaults(t *testing.T) {
	got := DefaultSettings().ExportConfig()
	want := export.DefaultConfig()
	if got.Format != want.Format || got.IncludeHeader != want.IncludeHeader ||
		got.ValueThreshold != want.ValueThreshold || !slices.Equal(got.FieldOrder, want.FieldOrder) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}
