// Package deals syncs free-game offers from a third-party price API into the
// local deal table.
package deals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/content"
)

// ClientOptions controls how the deal API client is initialised.
type ClientOptions struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Client fetches zero-price deals from a CheapShark-compatible endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logrus.Logger
}

const defaultFetchTimeout = 30 * time.Second

// NewClient constructs a deal API client.
func NewClient(opts ClientOptions) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, eris.New("deals endpoint is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultFetchTimeout}
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// apiDeal mirrors the provider's wire format. Prices arrive as strings.
type apiDeal struct {
	DealID      string `json:"dealID"`
	Title       string `json:"title"`
	StoreID     string `json:"storeID"`
	NormalPrice string `json:"normalPrice"`
	SalePrice   string `json:"salePrice"`
	Thumb       string `json:"thumb"`
}

// Store names for the provider's numeric store ids; unknown ids pass through.
var storeNames = map[string]string{
	"1":  "Steam",
	"7":  "GOG",
	"8":  "Origin",
	"11": "Humble Store",
	"13": "Uplay",
	"25": "Epic Games Store",
}

// FetchFreeDeals requests the zero-price deal listing and maps it onto the
// local model.
func (c *Client) FetchFreeDeals(ctx context.Context) ([]content.FreeGameDeal, error) {
	url := c.endpoint + "?upperPrice=0"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "building deals request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logError(err, "requesting deals")
		return nil, eris.Wrap(err, "requesting deals")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := eris.Errorf("deals API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		c.logError(err, "deals API error response")
		return nil, err
	}

	var payload []apiDeal
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logError(err, "decoding deals response")
		return nil, eris.Wrap(err, "decoding deals response")
	}

	deals := make([]content.FreeGameDeal, 0, len(payload))
	for _, item := range payload {
		if strings.TrimSpace(item.DealID) == "" || strings.TrimSpace(item.Title) == "" {
			continue
		}

		originalPrice := 0.0
		if item.NormalPrice != "" {
			if parsed, parseErr := strconv.ParseFloat(item.NormalPrice, 64); parseErr == nil {
				originalPrice = parsed
			}
		}

		store := storeNames[item.StoreID]
		if store == "" {
			store = item.StoreID
		}

		deals = append(deals, content.FreeGameDeal{
			ExternalID:    item.DealID,
			Title:         item.Title,
			Store:         store,
			OriginalPrice: originalPrice,
			DealURL:       fmt.Sprintf("https://www.cheapshark.com/redirect?dealID=%s", item.DealID),
			ImageURL:      item.Thumb,
		})
	}

	return deals, nil
}

func (c *Client) logError(err error, message string) {
	if c.logger == nil {
		return
	}
	c.logger.WithField("error", err.Error()).Error(message)
}
