package clipboard

import (
	"context"
	"fmt"

	"torn_item_value/internal/export"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// Sink writes export payloads to the system clipboard.
type Sink struct {
	write       func(string) error
	unsupported bool
}

// NewSink uses the system clipboard. Writes fail when no clipboard utility
// (xclip, xsel, wl-copy) is installed.
func NewSink() *Sink {
	return &Sink{write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

func (s *Sink) Name() string { return "clipboard" }

func (s *Sink) Write(ctx context.Context, payload string, format export.Format) error {
	if s.unsupported {
		return fmt.Errorf("no clipboard utility available on this system")
	}
	if err := s.write(payload); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	log.Debug().Int("bytes", len(payload)).Msg("Copied export to clipboard")
	return nil
}
