package config

import (
	"errors"
	"fmt"
	"io/fs"

	"torn_item_value/internal/export"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the export settings in the environment,
// e.g. BANKVALUE_DATAORDER.
const EnvPrefix = "BANKVALUE"

// Settings are the user-facing export options.
type Settings struct {
	ShowExportButton bool   `mapstructure:"showExportButton"`
	HideUnderValue   int    `mapstructure:"hideUnderValue"`
	DataOrder        string `mapstructure:"dataOrder"`
	ShowDataTitles   bool   `mapstructure:"showDataTitles"`
	DataFormat       string `mapstructure:"dataFormat"`
}

func DefaultSettings() Settings {
	return Settings{
		ShowExportButton: true,
		HideUnderValue:   0,
		DataOrder:        export.DefaultDataOrder,
		ShowDataTitles:   true,
		DataFormat:       "CSV",
	}
}

// LoadSettings reads settings from defaults, an optional file and the
// environment, in increasing priority. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("showExportButton", defaults.ShowExportButton)
	v.SetDefault("hideUnderValue", defaults.HideUnderValue)
	v.SetDefault("dataOrder", defaults.DataOrder)
	v.SetDefault("showDataTitles", defaults.ShowDataTitles)
	v.SetDefault("dataFormat", defaults.DataFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Settings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
			}
			log.Debug().Str("path", path).Msg("No settings file found; using defaults and environment")
		} else {
			log.Debug().Str("path", v.ConfigFileUsed()).Msg("Loaded settings file")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	return s, nil
}

// ExportConfig converts settings into the shape the exporter consumes. An
// unknown data format falls back to CSV.
func (s Settings) ExportConfig() export.Config {
	format, err := export.ParseFormat(s.DataFormat)
	if err != nil {
		log.Warn().Err(err).Msg("Unknown data format, defaulting to CSV")
	}
	return export.Config{
		FieldOrder:     export.ParseDataOrder(s.DataOrder),
		IncludeHeader:  s.ShowDataTitles,
		ValueThreshold: s.HideUnderValue,
		Format:         format,
	}
}
