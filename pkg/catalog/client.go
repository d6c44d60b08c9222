package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"label-service/internal/designer"

	"go.uber.org/zap"
)

// ErrProductNotFound is returned when the catalog has no product for the requested SKU
var ErrProductNotFound = errors.New("product not found in catalog")

// Client communicates with the remote product catalog service
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// ErrorResponse represents an error body returned by the catalog service
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewClient creates a new catalog client instance
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

// GetProductBySKU fetches a single product record by SKU from the catalog service
func (c *Client) GetProductBySKU(ctx context.Context, sku string) (*designer.ProductRecord, error) {
	c.Logger.Info("Fetching product from catalog service",
		zap.String("sku", sku))

	endpoint := fmt.Sprintf("%s/api/products?sku=%s", c.BaseURL, url.QueryEscape(sku))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.Logger.Error("Failed to create catalog request", zap.Error(err))
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Error("Catalog request failed", zap.Error(err))
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Error("Failed to read catalog response", zap.Error(err))
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			c.Logger.Error("Catalog returned error status",
				zap.Int("status_code", resp.StatusCode),
				zap.String("response", string(body)))
			return nil, fmt.Errorf("catalog request failed: %d %s", resp.StatusCode, string(body))
		}
		c.Logger.Error("Catalog returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("error", errorResp.Error))
		return nil, fmt.Errorf("catalog request failed: %s", errorResp.Error)
	}

	// The catalog list endpoint returns an array; a SKU filter yields zero or one record
	var products []designer.ProductRecord
	if err := json.Unmarshal(body, &products); err != nil {
		// Some deployments return a single object for SKU lookups
		var single designer.ProductRecord
		if err2 := json.Unmarshal(body, &single); err2 != nil {
			c.Logger.Error("Failed to parse catalog response", zap.Error(err))
			return nil, err
		}
		products = append(products, single)
	}

	if len(products) == 0 {
		c.Logger.Warn("No product found for SKU", zap.String("sku", sku))
		return nil, ErrProductNotFound
	}

	product := products[0]
	c.Logger.Info("Product fetched from catalog",
		zap.String("sku", product.SKU),
		zap.String("name", product.Name))
	return &product, nil
}
