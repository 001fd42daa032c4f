package feed

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// resolveName falls back to "Item ID: N" when the catalogue lookup fails.
func resolveName(ctx context.Context, api API, itemID int) string {
	log.Debug().Int("item_id", itemID).Msg("Resolving item name")
	item, err := api.GetItem(ctx, itemID)
	if err == nil && item.Name != "" {
		return item.Name
	}
	log.Warn().Err(err).Int("item_id", itemID).Msg("Failed to get item details")
	return fmt.Sprintf("Item ID: %d", itemID)
}

// resolveValue returns the catalogue market value, or 0 when unknown.
func resolveValue(ctx context.Context, api API, itemID int) int {
	log.Debug().Int("item_id", itemID).Msg("Resolving item market value")
	item, err := api.GetItem(ctx, itemID)
	if err != nil {
		log.Warn().Err(err).Int("item_id", itemID).Msg("Failed to get item market value")
		return 0
	}
	return int(math.Round(item.MarketValue))
}
