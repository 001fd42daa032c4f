package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"torn_item_value/internal/items"

	"github.com/rs/zerolog/log"
)

// ErrNoSnapshot is returned when an export is requested before the first refresh.
var ErrNoSnapshot = errors.New("no snapshot to export")

type Format int

const (
	FormatCSV Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatJSON:
		return "JSON"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CSV":
		return FormatCSV, nil
	case "JSON":
		return FormatJSON, nil
	default:
		return FormatCSV, fmt.Errorf("unknown data format %q", s)
	}
}

// Config describes how a snapshot is filtered and serialized.
type Config struct {
	FieldOrder     []string
	IncludeHeader  bool
	ValueThreshold int
	Format         Format
}

// DefaultConfig mirrors the settings defaults.
func DefaultConfig() Config {
	return Config{
		FieldOrder:    ParseDataOrder(DefaultDataOrder),
		IncludeHeader: true,
		Format:        FormatCSV,
	}
}

// Filter drops records whose unit value is below threshold, keeping order.
func Filter(records []items.ItemRecord, threshold int) []items.ItemRecord {
	kept := make([]items.ItemRecord, 0, len(records))
	for _, r := range records {
		if r.UnitValue < threshold {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// Build serializes the snapshot in its feed order, ignoring any on-screen
// sort. The result depends only on snap and cfg.
func Build(snap *items.Snapshot, cfg Config) (string, error) {
	if snap == nil {
		return "", ErrNoSnapshot
	}

	records := Filter(snap.Records, cfg.ValueThreshold)
	log.Debug().
		Int("total", snap.Len()).
		Int("kept", len(records)).
		Int("threshold", cfg.ValueThreshold).
		Str("format", cfg.Format.String()).
		Msg("Building export payload")

	switch cfg.Format {
	case FormatJSON:
		return buildJSON(records, cfg.FieldOrder)
	default:
		return buildCSV(records, cfg.FieldOrder, cfg.IncludeHeader)
	}
}

func buildCSV(records []items.ItemRecord, order []string, includeHeader bool) (string, error) {
	var b strings.Builder
	if includeHeader {
		writeLine(&b, HeaderFields(order))
	}
	for _, r := range records {
		writeLine(&b, FormatFields(r, order))
	}
	return b.String(), nil
}

// writeLine joins fields with commas as-is. Values are not quoted, so a name
// containing a comma spans two columns when the text is read back as CSV.
func writeLine(b *strings.Builder, fields []string) {
	b.WriteString(strings.Join(fields, ","))
	b.WriteByte('\n')
}

func buildJSON(records []items.ItemRecord, order []string) (string, error) {
	objects := make([]map[string]any, 0, len(records))
	for _, r := range records {
		objects = append(objects, jsonObject(r, order))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(objects); err != nil {
		return "", fmt.Errorf("failed to encode json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
