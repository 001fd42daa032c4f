package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"torn_item_value/internal/controller"
	"torn_item_value/internal/retry"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	priority   string
	retry      retry.Config
	wg         sync.WaitGroup
	mutex      sync.Mutex
	// Metrics
	totalSent   int64
	totalFailed int64
}

type NotificationError struct {
	Type       string
	StatusCode int
	Underlying error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed [%s]: %v", e.Type, e.Underlying)
}

func (e *NotificationError) Unwrap() error { return e.Underlying }

func (e *NotificationError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

func NewClient(baseURL, topic string, enabled bool, priority string, rc retry.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  baseURL,
		topic:    topic,
		enabled:  enabled,
		priority: priority,
		retry:    rc,
	}
}

func (c *Client) Enabled() bool { return c.enabled }

func (c *Client) SendNotification(ctx context.Context, message string) error {
	if !c.enabled {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	_, err := retry.WithRetry(ctx, "notify", c.retry, func(ctx context.Context) (struct{}, error) {
		err := c.sendSingleNotification(ctx, message)
		var notifErr *NotificationError
		if errors.As(err, &notifErr) && !notifErr.IsRetryable() {
			return struct{}{}, retry.Permanent(err)
		}
		return struct{}{}, err
	})

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err != nil {
		c.totalFailed++
		return err
	}
	c.totalSent++
	return nil
}

func (c *Client) sendSingleNotification(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	log.Debug().
		Str("url", url).
		Str("message", message).
		Msg("Sending notification")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return &NotificationError{Type: "client", Underlying: err}
	}

	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Title", "Torn item export")
	if c.priority != "" {
		req.Header.Set("Priority", c.priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{Type: "network", Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &NotificationError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().Int("status_code", resp.StatusCode).Msg("Notification sent successfully")
	return nil
}

// NotifyExport pushes a one-line export summary in the background. It has the
// shape of a controller export hook.
func (c *Client) NotifyExport(ctx context.Context, r controller.Receipt) {
	if !c.enabled {
		return
	}

	message := FormatExportMessage(r)
	ctx = context.WithoutCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.SendNotification(ctx, message); err != nil {
			log.Warn().Err(err).Str("export_id", r.ID).Msg("Export notification failed")
		}
	}()
}

// Wait blocks until background notifications have finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

func FormatExportMessage(r controller.Receipt) string {
	noun := "items"
	if r.Items == 1 {
		noun = "item"
	}
	return fmt.Sprintf("Exported %s %s (%s) to %s worth %s",
		humanize.Comma(int64(r.Items)), noun, r.Format, r.Sink, humanize.Comma(int64(r.TotalValue)))
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 429:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}

// GetMetrics returns current notification metrics
func (c *Client) GetMetrics() (sent, failed int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.totalSent, c.totalFailed
}
