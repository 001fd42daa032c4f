package feed

import (
	"context"
	"errors"
	"fmt"

	"torn_item_value/internal/items"
	"torn_item_value/internal/retry"
	"torn_item_value/internal/torn"

	"github.com/rs/zerolog/log"
)

// ErrAllSourcesFailed means no container could be read, so there is nothing
// to replace the current snapshot with.
var ErrAllSourcesFailed = errors.New("all containers failed to load")

// Refresh reads every source in order and returns one record per container
// stack. A failing source is skipped; the refresh only fails when all do.
func Refresh(ctx context.Context, api API, sources []Source, rc retry.Config) ([]items.ItemRecord, error) {
	log.Debug().Int("sources", len(sources)).Msg("Refreshing item snapshot")

	var records []items.ItemRecord
	var errs []error
	loaded := 0

	for _, src := range sources {
		contents, err := retry.WithRetry(ctx, "fetch "+src.Name, rc, func(ctx context.Context) ([]torn.ContainerItem, error) {
			contents, err := src.Fetch(ctx, api)
			var apiErr *torn.APIError
			if errors.As(err, &apiErr) && apiErr.Permanent() {
				return nil, retry.Permanent(err)
			}
			return contents, err
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("container", src.Name).Msg("Failed to load container; skipping")
			errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
			continue
		}

		loaded++
		for _, ci := range contents {
			records = append(records, toRecord(ctx, api, ci))
		}
		log.Debug().
			Str("container", src.Name).
			Int("count", len(contents)).
			Msg("Loaded container")
	}

	if loaded == 0 && len(sources) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
	}

	log.Info().
		Int("items", len(records)).
		Int("containers", loaded).
		Msg("Snapshot refreshed")
	return records, nil
}

func toRecord(ctx context.Context, api API, ci torn.ContainerItem) items.ItemRecord {
	name := ci.Name
	if name == "" {
		name = resolveName(ctx, api, ci.ID)
	}
	value := ci.MarketPrice
	if value == 0 {
		value = resolveValue(ctx, api, ci.ID)
	}
	return items.ItemRecord{
		ID:        ci.ID,
		Name:      name,
		Quantity:  ci.Quantity,
		UnitValue: value,
	}
}
