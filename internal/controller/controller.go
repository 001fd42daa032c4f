package controller

import (
	"context"
	"errors"
	"fmt"

	"torn_item_value/internal/config"
	"torn_item_value/internal/export"
	"torn_item_value/internal/items"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrExportDisabled is returned when the export button is hidden in settings.
var ErrExportDisabled = errors.New("export is disabled in settings")

// Sink receives an export payload, e.g. the system clipboard. The payload is
// delivered as-is; format tells sinks that care how it was serialized.
type Sink interface {
	Name() string
	Write(ctx context.Context, payload string, format export.Format) error
}

// Receipt summarizes a completed export.
type Receipt struct {
	ID         string
	Sink       string
	Format     export.Format
	Items      int
	TotalValue int
	Bytes      int
}

// ExportHook runs after a payload has been handed to the sink.
type ExportHook func(ctx context.Context, r Receipt)

// Controller owns the item list state. Its methods are meant to be called
// from a single event loop; the snapshot itself is swapped atomically.
type Controller struct {
	store    items.Store
	sort     items.SortState
	sink     Sink
	settings func() config.Settings
	hooks    []ExportHook
}

type Option func(*Controller)

// WithExportHook registers a callback run after every successful export.
func WithExportHook(h ExportHook) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, h)
	}
}

// WithSortState overrides the initial sort state.
func WithSortState(s items.SortState) Option {
	return func(c *Controller) {
		c.sort = s
	}
}

// New builds a controller. settings is read on every export so changes take
// effect without a restart.
func New(sink Sink, settings func() config.Settings, opts ...Option) *Controller {
	c := &Controller{
		sort:     items.DefaultSortState(),
		sink:     sink,
		settings: settings,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSnapshot replaces the current snapshot with records.
func (c *Controller) OnSnapshot(records []items.ItemRecord) {
	snap := c.store.Replace(records)
	log.Debug().Int("items", snap.Len()).Msg("Snapshot replaced")
}

// OnSortRequested applies a column click and returns the new sort state.
func (c *Controller) OnSortRequested(key items.SortKey) items.SortState {
	c.sort = c.sort.Request(key)
	log.Debug().
		Str("key", c.sort.Key.String()).
		Bool("ascending", c.sort.Ascending).
		Msg("Sort changed")
	return c.sort
}

func (c *Controller) SortState() items.SortState {
	return c.sort
}

// Snapshot returns the current snapshot, nil before the first refresh.
func (c *Controller) Snapshot() *items.Snapshot {
	return c.store.Load()
}

// Rows returns the snapshot in display order.
func (c *Controller) Rows() []items.ItemRecord {
	snap := c.store.Load()
	if snap == nil {
		return nil
	}
	return items.Sort(snap.Records, c.sort)
}

// ExportEnabled reports whether the export action should be offered.
func (c *Controller) ExportEnabled() bool {
	return c.settings().ShowExportButton
}

// OnExportRequested serializes the current snapshot and writes it to the
// sink. ok is false, with no sink write, when there is no snapshot yet.
func (c *Controller) OnExportRequested(ctx context.Context) (receipt Receipt, ok bool, err error) {
	settings := c.settings()
	if !settings.ShowExportButton {
		return Receipt{}, false, ErrExportDisabled
	}

	snap := c.store.Load()
	cfg := settings.ExportConfig()

	payload, err := export.Build(snap, cfg)
	if errors.Is(err, export.ErrNoSnapshot) {
		log.Debug().Msg("Export requested before first refresh; nothing to do")
		return Receipt{}, false, nil
	}
	if err != nil {
		return Receipt{}, false, fmt.Errorf("failed to build export: %w", err)
	}

	receipt = Receipt{
		ID:     uuid.NewString(),
		Sink:   c.sink.Name(),
		Format: cfg.Format,
		Bytes:  len(payload),
	}
	for _, r := range export.Filter(snap.Records, cfg.ValueThreshold) {
		receipt.Items++
		receipt.TotalValue += r.TotalValue()
	}

	if err := c.sink.Write(ctx, payload, cfg.Format); err != nil {
		return Receipt{}, false, fmt.Errorf("failed to write export to %s: %w", c.sink.Name(), err)
	}

	log.Info().
		Str("export_id", receipt.ID).
		Str("sink", receipt.Sink).
		Str("format", receipt.Format.String()).
		Int("items", receipt.Items).
		Int("total_value", receipt.TotalValue).
		Int("bytes", receipt.Bytes).
		Msg("Export complete")

	for _, h := range c.hooks {
		h(ctx, receipt)
	}
	return receipt, true, nil
}
