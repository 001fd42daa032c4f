package sheets

import (
	"context"
	"strconv"
	"strings"

	"torn_item_value/internal/export"
	"torn_item_value/internal/retry"

	"github.com/rs/zerolog/log"
)

type valuesWriter interface {
	ClearRange(ctx context.Context, spreadsheetID, range_ string) error
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
}

// Sink pastes export payloads into a spreadsheet. CSV payloads become one
// row per line starting at the anchor cell; JSON goes into the anchor cell.
type Sink struct {
	client        valuesWriter
	spreadsheetID string
	anchor        string
	retry         retry.Config
}

// NewSink writes to anchor, e.g. "Export!A1". The anchor's sheet is cleared
// before every write.
func NewSink(client *Client, spreadsheetID, anchor string, rc retry.Config) *Sink {
	return &Sink{
		client:        client,
		spreadsheetID: spreadsheetID,
		anchor:        anchor,
		retry:         rc,
	}
}

func (s *Sink) Name() string { return "sheets" }

func (s *Sink) Write(ctx context.Context, payload string, format export.Format) error {
	values := payloadValues(payload, format)

	sheetRange := clearRange(s.anchor)
	_, err := retry.WithRetry(ctx, "clear sheet", s.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.client.ClearRange(ctx, s.spreadsheetID, sheetRange)
	})
	if err != nil {
		return err
	}

	_, err = retry.WithRetry(ctx, "write sheet", s.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.client.UpdateRange(ctx, s.spreadsheetID, s.anchor, values)
	})
	if err != nil {
		return err
	}

	log.Debug().
		Str("range", s.anchor).
		Int("rows", len(values)).
		Msg("Wrote export to sheet")
	return nil
}

// clearRange returns the whole sheet the anchor points into. An anchor
// without a sheet name refers to the first sheet.
func clearRange(anchor string) string {
	if i := strings.LastIndex(anchor, "!"); i >= 0 {
		return anchor[:i]
	}
	return "A:ZZZ"
}

// payloadValues splits CSV payloads into rows on newlines and cells on
// commas, skipping blank lines. Integer cells are sent as numbers.
func payloadValues(payload string, format export.Format) [][]interface{} {
	if format == export.FormatJSON {
		return [][]interface{}{{payload}}
	}

	var values [][]interface{}
	for _, line := range strings.Split(payload, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		row := make([]interface{}, len(fields))
		for i, field := range fields {
			row[i] = cellValue(field)
		}
		values = append(values, row)
	}
	return values
}

// cellValue keeps text that does not round-trip as an integer, e.g. "007".
func cellValue(field string) interface{} {
	n, err := strconv.Atoi(field)
	if err != nil || strconv.Itoa(n) != field {
		return field
	}
	return n
}
