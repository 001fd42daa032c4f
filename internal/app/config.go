package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"torn_item_value/internal/clipboard"
	"torn_item_value/internal/config"
	"torn_item_value/internal/controller"
	"torn_item_value/internal/feed"
	"torn_item_value/internal/notifications"
	"torn_item_value/internal/sheets"
	"torn_item_value/internal/torn"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env and points the global logger at stderr, with
// format and level taken from ENV and LOGLEVEL.
func SetupEnvironment() {
	dotenvErr := godotenv.Load()

	production := os.Getenv("ENV") == "production"
	log.Logger = newLogger(os.Stderr, production)

	level, err := logLevel(os.Getenv("LOGLEVEL"), production)
	zerolog.SetGlobalLevel(level)
	if err != nil {
		log.Warn().Err(err).Msg("Defaulting to info level")
	}

	if dotenvErr == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file loaded; using the process environment.")
	}
}

// newLogger writes JSON lines with Unix timestamps in production and
// human-readable console output otherwise.
func newLogger(w io.Writer, production bool) zerolog.Logger {
	if production {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		return zerolog.New(w).With().Timestamp().Logger()
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(console).With().Timestamp().Logger()
}

// logLevel parses LOGLEVEL. Unset means warn in production and info
// elsewhere; an unknown name yields info and an error.
func logLevel(raw string, production bool) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "":
		if production {
			return zerolog.WarnLevel, nil
		}
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("unknown LOGLEVEL %q", raw)
	}
	return level, nil
}

// lookupEnv treats blank values as unset.
func lookupEnv(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

// GetRequiredEnv returns key's value and exits when it is unset or blank.
func GetRequiredEnv(key string) string {
	value, ok := lookupEnv(key)
	if !ok {
		log.Fatal().Str("variable", key).Msg("Required environment variable is not set")
	}
	return value
}

// GetEnvWithDefault returns key's value, or defaultValue when unset or blank.
func GetEnvWithDefault(key, defaultValue string) string {
	if value, ok := lookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// GetDurationEnv parses a duration variable, falling back on a bad value.
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	raw, ok := lookupEnv(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Str(key, raw).Dur("default", defaultValue).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}

// InitializeTornClient creates the Torn API client from TORN_API_KEY.
func InitializeTornClient() *torn.Client {
	apiKey := GetRequiredEnv("TORN_API_KEY")
	baseURL := GetEnvWithDefault("TORN_API_URL", torn.DefaultBaseURL)
	cacheTTL := GetDurationEnv("ITEM_CACHE_TTL", time.Hour)
	return torn.NewClient(apiKey, torn.WithBaseURL(baseURL), torn.WithCacheTTL(cacheTTL))
}

// InitializeSources reads the containers to include from TORN_CONTAINERS.
func InitializeSources() []feed.Source {
	list := GetEnvWithDefault("TORN_CONTAINERS", "display")
	sources, err := feed.ParseSources(list)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TORN_CONTAINERS")
	}
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name)
	}
	log.Debug().Strs("containers", names).Msg("Using containers")
	return sources
}

// SettingsLoader returns a function that reloads export settings on each call,
// keeping the last good settings when the file cannot be read.
func SettingsLoader() func() config.Settings {
	path := GetEnvWithDefault("SETTINGS_FILE", "settings.yaml")
	last := config.DefaultSettings()
	return func() config.Settings {
		s, err := config.LoadSettings(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to load settings; keeping previous values")
			return last
		}
		last = s
		return s
	}
}

// InitializeSink picks the export destination from EXPORT_SINK.
func InitializeSink(ctx context.Context) controller.Sink {
	kind := strings.ToLower(GetEnvWithDefault("EXPORT_SINK", "clipboard"))
	switch kind {
	case "clipboard":
		return clipboard.NewSink()
	case "sheets":
		credsFile := GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
		client, err := sheets.NewClient(ctx, credsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets client")
		}
		spreadsheetID := GetRequiredEnv("SPREADSHEET_ID")
		anchor := GetEnvWithDefault("SPREADSHEET_RANGE", "Export!A1")
		log.Debug().Str("range", anchor).Msg("Exporting to Google Sheets")
		return sheets.NewSink(client, spreadsheetID, anchor, config.DefaultResilienceConfig.SheetWrite)
	default:
		log.Fatal().Str("sink", kind).Msg("Unknown EXPORT_SINK; expected clipboard or sheets")
		return nil
	}
}

// InitializeNotificationClient creates and returns the notification client
func InitializeNotificationClient() *notifications.Client {
	enabled := GetEnvWithDefault("NTFY_ENABLED", "false") == "true"
	baseURL := GetEnvWithDefault("NTFY_URL", "https://ntfy.sh")
	topic := GetEnvWithDefault("NTFY_TOPIC", "torn-item-value")
	priority := GetEnvWithDefault("NTFY_PRIORITY", "")

	log.Debug().
		Bool("enabled", enabled).
		Str("base_url", baseURL).
		Str("topic", topic).
		Msg("Initializing notification client")

	client := notifications.NewClient(baseURL, topic, enabled, priority, config.DefaultResilienceConfig.Notify)

	if enabled {
		log.Info().Str("topic", topic).Msg("Notifications enabled")
	} else {
		log.Debug().Msg("Notifications disabled")
	}

	return client
}
