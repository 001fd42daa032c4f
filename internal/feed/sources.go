package feed

import (
	"context"
	"fmt"
	"strings"

	"torn_item_value/internal/torn"

	"github.com/rs/zerolog/log"
)

// API is the subset of the Torn client the feed reads from.
type API interface {
	GetDisplayCase(ctx context.Context) ([]torn.ContainerItem, error)
	GetBazaar(ctx context.Context) ([]torn.ContainerItem, error)
	GetItem(ctx context.Context, itemID int) (*torn.Item, error)
}

// Source is one player container whose contents make up part of a snapshot.
type Source struct {
	Name  string
	Fetch func(ctx context.Context, api API) ([]torn.ContainerItem, error)
}

var knownSources = map[string]Source{
	"display": {Name: "display", Fetch: func(ctx context.Context, api API) ([]torn.ContainerItem, error) {
		return api.GetDisplayCase(ctx)
	}},
	"bazaar": {Name: "bazaar", Fetch: func(ctx context.Context, api API) ([]torn.ContainerItem, error) {
		return api.GetBazaar(ctx)
	}},
}

// ParseSources reads a comma separated container list such as
// "display,bazaar". Unknown names are skipped with a warning, blanks ignored.
func ParseSources(list string) ([]Source, error) {
	var sources []Source
	seen := make(map[string]bool)
	for _, raw := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		src, ok := knownSources[name]
		if !ok {
			log.Warn().Str("container", name).Msg("Unknown container; skipping")
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no valid containers in %q", list)
	}
	return sources, nil
}
