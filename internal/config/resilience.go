package config

import (
	"time"

	"torn_item_value/internal/retry"
)

type ResilienceConfig struct {
	FeedRequest retry.Config
	SheetWrite  retry.Config
	Notify      retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	FeedRequest: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	SheetWrite: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	Notify: retry.Config{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    10 * time.Second,
	},
}
