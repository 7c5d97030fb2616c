// Package places wraps the upstream place-search HTTP API that the
// venue catalog is mirrored from.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const photoEndpoint = "https://maps.googleapis.com/maps/api/place/photo"

// Place is one result from the upstream text search, reduced to the
// fields the venue catalog stores.
type Place struct {
	PlaceID      string
	Name         string
	Address      string
	Rating       float64
	TotalReview  int
	ThumbnailURL string
}

// Client is a read-only client for the place-search API. Calls are
// guarded by the HTTP client timeout only; there is no retry.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given search endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type searchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID          string  `json:"place_id"`
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		Photos           []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

// TextSearch runs a text search for the given query and maps the
// results into Places.
func (c *Client) TextSearch(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	params.Set("type", "sports_complex")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build place search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place search returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode place search response: %w", err)
	}

	places := make([]Place, 0, len(body.Results))
	for _, r := range body.Results {
		p := Place{
			PlaceID:     r.PlaceID,
			Name:        r.Name,
			Address:     r.FormattedAddress,
			Rating:      r.Rating,
			TotalReview: r.UserRatingsTotal,
		}
		if len(r.Photos) > 0 {
			p.ThumbnailURL = fmt.Sprintf("%s?maxwidth=400&photoreference=%s&key=%s",
				photoEndpoint, r.Photos[0].PhotoReference, c.apiKey)
		}
		places = append(places, p)
	}

	return places, nil
}
