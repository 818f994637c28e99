package square

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LukasWeidner/DishPatch/internal/pkg/env"
)

const (
	productionBaseURL = "https://connect.squareup.com"
	sandboxBaseURL    = "https://connect.squareupsandbox.com"

	apiVersion = "2024-08-21"
)

// ErrOrderNotFound is returned when the orders API answers without an order
// object for the requested id.
var ErrOrderNotFound = errors.New("square: order not found")

// Client is a minimal Square Connect API client covering the order
// operations this application needs.
type Client struct {
	AccessToken string
	BaseURL     string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from SQUARE_ACCESS_TOKEN and
// SQUARE_ENVIRONMENT. Anything other than "production" selects the sandbox.
func NewClientFromEnv() *Client {
	base := sandboxBaseURL
	if env.IsSquareProduction() {
		base = productionBaseURL
	}

	return &Client{
		AccessToken: strings.TrimSpace(env.GetEnv("SQUARE_ACCESS_TOKEN", "")),
		BaseURL:     base,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type retrieveOrderResponse struct {
	Order  *Order          `json:"order"`
	Errors []responseError `json:"errors"`
}

type createOrderRequest struct {
	IdempotencyKey string    `json:"idempotency_key"`
	Order          *NewOrder `json:"order"`
}

// NewOrder is the request shape for order creation at checkout initiation.
// Metadata carries the application context the webhook later decodes.
type NewOrder struct {
	LocationID string            `json:"location_id"`
	LineItems  []NewLineItem     `json:"line_items"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type NewLineItem struct {
	Name            string `json:"name"`
	Quantity        string `json:"quantity"`
	BasePriceMoney  *Money `json:"base_price_money,omitempty"`
	CatalogObjectID string `json:"catalog_object_id,omitempty"`
}

type responseError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

// RetrieveOrder fetches the authoritative order state by id.
func (c *Client) RetrieveOrder(ctx context.Context, orderID string) (*Order, error) {
	if strings.TrimSpace(c.AccessToken) == "" {
		return nil, errors.New("SQUARE_ACCESS_TOKEN is not configured")
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, errors.New("order id is required")
	}

	var out retrieveOrderResponse
	if err := c.do(ctx, http.MethodGet, "/v2/orders/"+orderID, nil, &out); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, ErrOrderNotFound
	}
	return out.Order, nil
}

// CreateOrder creates a provider order with the given idempotency key. Used
// by checkout initiation to attach the metadata the webhook depends on.
func (c *Client) CreateOrder(ctx context.Context, idempotencyKey string, order *NewOrder) (*Order, error) {
	if strings.TrimSpace(c.AccessToken) == "" {
		return nil, errors.New("SQUARE_ACCESS_TOKEN is not configured")
	}

	var out retrieveOrderResponse
	req := createOrderRequest{IdempotencyKey: idempotencyKey, Order: order}
	if err := c.do(ctx, http.MethodPost, "/v2/orders", req, &out); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, errors.New("square: create order returned no order")
	}
	return out.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Square-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrOrderNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("square: %s %s returned status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("square: decode response: %w", err)
		}
	}
	return nil
}
