// Package shiprazor quotes shipping rates for checkout. A ShipRazor
// endpoint is optional; without one the client serves the flat-rate table
// the storefront launched with.
package shiprazor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/platform/timeouts"
	"github.com/warmnest/warmnest/internal/storage"
)

// Config carries the optional rate endpoint.
type Config struct {
	Endpoint string `env:"WARMNEST_SHIPRAZOR_URL"`
}

// Rate is one shipping option.
type Rate struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Days  int             `json:"days"`
}

// StaticRates returns the flat-rate table used when no rate endpoint is
// configured or the remote quote fails.
func StaticRates() []Rate {
	return []Rate{
		{ID: "standard", Name: "Standard Delivery (3-5 Days)", Price: decimal.NewFromInt(85), Days: 4},
		{ID: "express", Name: "Express Delivery (1-2 Days)", Price: decimal.NewFromInt(150), Days: 1},
	}
}

// Client fetches shipping rates.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient builds a rate client. An empty endpoint means static rates only.
func NewClient(cfg Config) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeouts.ShippingQuote},
	}
}

type quoteRequest struct {
	Address  storage.Address `json:"address"`
	WeightKG float64         `json:"weightKg"`
}

type quoteResponse struct {
	Rates []Rate `json:"rates"`
}

// GetRates quotes shipping options for a destination and parcel weight.
func (c *Client) GetRates(ctx context.Context, address storage.Address, weightKG float64) ([]Rate, error) {
	if c.endpoint == "" {
		return StaticRates(), nil
	}

	payload, err := json.Marshal(quoteRequest{Address: address, WeightKG: weightKG})
	if err != nil {
		return nil, fmt.Errorf("encode quote request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call rate endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate endpoint returned status %d", resp.StatusCode)
	}
	var quoted quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoted); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	if len(quoted.Rates) == 0 {
		return nil, fmt.Errorf("rate endpoint returned no rates")
	}
	return quoted.Rates, nil
}
