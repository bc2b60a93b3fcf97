// Package fulfillment is the HTTP client for the downstream fulfillment
// provider that prepares placed orders for shipping.
package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// OrderLine is one line of the announced order.
type OrderLine struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

// OrderPayload is the wire shape accepted by the fulfillment API.
type OrderPayload struct {
	Reference  string      `json:"reference"`
	UserID     string      `json:"userId"`
	TotalPrice float64     `json:"totalPrice"`
	Lines      []OrderLine `json:"lines"`
}

// Client wraps a resty client against the fulfillment API.
type Client struct {
	http *resty.Client
}

// NewClient instantiates the fulfillment client with sane defaults.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("fulfillment base URL is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0)
	return &Client{http: client}, nil
}

// AnnounceOrder pushes the payload to the fulfillment API.
func (c *Client) AnnounceOrder(ctx context.Context, payload OrderPayload) error {
	if c == nil || c.http == nil {
		return errors.New("fulfillment client not configured")
	}
	if strings.TrimSpace(payload.Reference) == "" {
		return errors.New("order reference is required")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/orders")
	if err != nil {
		return fmt.Errorf("call fulfillment API: %w", err)
	}
	status := resp.StatusCode()
	switch {
	case status == http.StatusOK || status == http.StatusCreated || status == http.StatusAccepted:
		return nil
	case status == http.StatusConflict:
		// Already announced; safe to treat as success on retries.
		return nil
	default:
		return fmt.Errorf("fulfillment API error: %s", resp.Status())
	}
}
