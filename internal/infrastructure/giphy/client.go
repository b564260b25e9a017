// Package giphy contains the Giphy API client
package giphy

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

const searchQuery = "fork food"

// Client implements domain.GifProvider against the Giphy search API. A
// random gif among the first GifLimit results is returned per lookup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limit      int
	logger     zerolog.Logger
}

type searchResponse struct {
	Data []struct {
		Images struct {
			Original struct {
				URL string `json:"url"`
			} `json:"original"`
		} `json:"images"`
	} `json:"data"`
}

// NewClient creates a new Giphy client
func NewClient(apiKey, baseURL string, limit int, logger zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("giphy API key is required")
	}
	if limit <= 0 {
		limit = 30
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limit:      limit,
		logger:     logger,
	}, nil
}

// SearchGif returns the URL of a random gif matching the search query.
// An empty result set yields domain.ErrNoGif.
func (c *Client) SearchGif(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("q", searchQuery)
	query.Set("limit", strconv.Itoa(c.limit))

	endpoint := c.baseURL + "/v1/gifs/search?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build giphy request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gif from giphy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("giphy search returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse giphy response: %w", err)
	}

	if len(result.Data) == 0 {
		return "", domain.ErrNoGif
	}

	gif := result.Data[rand.Intn(len(result.Data))]

	c.logger.Debug().Str("url", gif.Images.Original.URL).Msg("Selected gif")

	return gif.Images.Original.URL, nil
}
