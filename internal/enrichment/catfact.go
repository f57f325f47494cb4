package enrichment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// CatFactClient fetches a supplementary fact from the third-party API.
// Any failure degrades to an empty string, never to an error
type CatFactClient struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewCatFactClient creates a new CatFactClient with the default http.Client
func NewCatFactClient(url string, logger *slog.Logger) *CatFactClient {
	return &CatFactClient{
		url:    url,
		client: http.DefaultClient,
		logger: logger,
	}
}

// Fact performs a single GET and returns the fact field of the response,
// or an empty string on any transport or decode failure
func (c *CatFactClient) Fact(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		c.logger.Error("Error building cat fact request", "error", err)
		return ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Error fetching cat fact", "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var body struct {
		Fact string `json:"fact"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error("Error decoding cat fact response", "error", err)
		return ""
	}

	return body.Fact
}
