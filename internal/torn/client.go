package torn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://api.torn.com"

type Client struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	itemCache    sync.Map
	cacheTTL     time.Duration
	apiCallCount int64
	apiCallMutex sync.Mutex
}

type Item struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	BuyPrice    int     `json:"buy_price"`
	SellPrice   int     `json:"sell_price"`
	MarketValue float64 `json:"market_value"`
	Circulation int     `json:"circulation"`
	Tradeable   bool    `json:"tradeable"`
}

// ContainerItem is one stack of items held in a player's display case or bazaar.
type ContainerItem struct {
	ID          int    `json:"ID"`
	UID         int64  `json:"UID"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Price       int    `json:"price"`
	MarketPrice int    `json:"market_price"`
}

type UserInfo struct {
	Level    int    `json:"level"`
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
}

// APIError is the error envelope Torn returns with a 200 status.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("torn api error %d: %s", e.Code, e.Message)
}

// Permanent reports whether retrying the request cannot help: missing,
// wrong, paused or under-privileged keys.
func (e *APIError) Permanent() bool {
	switch e.Code {
	case 1, 2, 10, 13, 16, 18:
		return true
	default:
		return false
	}
}

type cachedItem struct {
	item      *Item
	timestamp time.Time
}

type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithCacheTTL sets how long item catalogue entries are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cacheTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *Client) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// get performs one API request and decodes the body into out, surfacing
// Torn's in-band error envelope as *APIError.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.IncrementAPICall()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Debug().
			Err(err).
			Str("path", path).
			Str("response_body", string(body[:min(500, len(body))])).
			Msg("Failed to unmarshal JSON response")
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) GetItem(ctx context.Context, itemID int) (*Item, error) {
	key := strconv.Itoa(itemID)

	if cached, ok := c.itemCache.Load(key); ok {
		entry := cached.(cachedItem)
		if time.Since(entry.timestamp) < c.cacheTTL {
			return entry.item, nil
		}
	}

	var result struct {
		Items map[string]Item `json:"items"`
	}
	if err := c.get(ctx, "torn/"+key, url.Values{"selections": {"items"}}, &result); err != nil {
		return nil, err
	}

	item, ok := result.Items[key]
	if !ok {
		return nil, fmt.Errorf("item %s not found", key)
	}

	c.itemCache.Store(key, cachedItem{
		item:      &item,
		timestamp: time.Now(),
	})

	return &item, nil
}

// GetDisplayCase returns the items in the key owner's display case.
func (c *Client) GetDisplayCase(ctx context.Context) ([]ContainerItem, error) {
	log.Debug().Msg("Fetching display case")
	var result struct {
		Display []ContainerItem `json:"display"`
	}
	if err := c.get(ctx, "user/", url.Values{"selections": {"display"}}, &result); err != nil {
		return nil, fmt.Errorf("failed to get display case: %w", err)
	}
	log.Debug().Int("count", len(result.Display)).Msg("Retrieved display case")
	return result.Display, nil
}

// GetBazaar returns the items listed in the key owner's bazaar.
func (c *Client) GetBazaar(ctx context.Context) ([]ContainerItem, error) {
	log.Debug().Msg("Fetching bazaar")
	var result struct {
		Bazaar []ContainerItem `json:"bazaar"`
	}
	if err := c.get(ctx, "user/", url.Values{"selections": {"bazaar"}}, &result); err != nil {
		return nil, fmt.Errorf("failed to get bazaar: %w", err)
	}
	log.Debug().Int("count", len(result.Bazaar)).Msg("Retrieved bazaar")
	return result.Bazaar, nil
}

func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	var userInfo UserInfo
	if err := c.get(ctx, "user/", url.Values{"selections": {"basic"}}, &userInfo); err != nil {
		return "", err
	}
	return userInfo.Name, nil
}
