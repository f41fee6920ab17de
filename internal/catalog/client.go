// Package catalog looks up product metadata in an external catalog and
// attaches it to validated transactions.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/salesflow/internal/common"
	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/service"
)

// DefaultURL is the public catalog endpoint.
const DefaultURL = "https://dummyjson.com/products?limit=100"

// Client fetches products from a DummyJSON-style HTTP catalog.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	url        string
	retry      service.RetryOptions
}

// Config configures a Client.
type Config struct {
	URL           string
	Timeout       time.Duration
	RetryAttempts int
}

type productsResponse struct {
	Products []model.Product `json:"products"`
}

// NewClient creates a catalog client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		retry: service.RetryOptions{
			MaxAttempts:  max(cfg.RetryAttempts, 1),
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// FetchProducts downloads the catalog, retrying transient failures.
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product

	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		products, fetchErr = c.fetchOnce(ctx)
		return fetchErr
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCatalogUnavailable, err)
	}

	c.logger.Info("Fetched product catalog", "products", len(products), "url", c.url)
	return products, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.ErrRateLimit
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("catalog server error: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &common.RetryableError{
			Err: fmt.Errorf("catalog API error: %d - %s", resp.StatusCode, string(body)),
		}
	}

	var payload productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to decode catalog: %w", err)}
	}

	return payload.Products, nil
}
