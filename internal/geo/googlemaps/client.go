package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fahrtkosten-service/internal/geo"
)

const (
	defaultBaseURL     = "https://maps.googleapis.com"
	pathGeocode        = "/maps/api/geocode/json"
	pathDistanceMatrix = "/maps/api/distancematrix/json"
)

// Config carries the connection settings for the Google Maps web
// services.
type Config struct {
	APIKey     string
	BaseURL    string
	Region     string
	Language   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the Google Maps geocoding and distance matrix APIs.
type Client struct {
	apiKey   string
	baseURL  string
	region   string
	language string
	http     *http.Client
}

// New builds a client from cfg. The API key is required.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("googlemaps: missing API key")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(base, "/"),
		region:   cfg.Region,
		language: cfg.Language,
		http:     httpClient,
	}, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address into coordinates and a canonical address.
func (c *Client) Geocode(ctx context.Context, address string) (geo.Location, error) {
	params := url.Values{}
	params.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, pathGeocode, params, address, &resp); err != nil {
		return geo.Location{}, err
	}
	if err := statusError(resp.Status, address); err != nil {
		return geo.Location{}, err
	}
	if len(resp.Results) == 0 {
		return geo.Location{}, &geo.Error{
			Kind:    geo.KindInvalidAddress,
			Address: address,
			Detail:  "no geocoding results",
		}
	}
	first := resp.Results[0]
	return geo.Location{
		Address:   first.FormattedAddress,
		Latitude:  first.Geometry.Location.Lat,
		Longitude: first.Geometry.Location.Lng,
	}, nil
}

type distanceResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"` // metres
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// DistanceKM returns the driving distance between two addresses in
// kilometres.
func (c *Client) DistanceKM(ctx context.Context, origin, destination string) (float64, error) {
	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("mode", "driving")

	var resp distanceResponse
	if err := c.get(ctx, pathDistanceMatrix, params, destination, &resp); err != nil {
		return 0, err
	}
	if err := statusError(resp.Status, destination); err != nil {
		return 0, err
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, &geo.Error{
			Kind:    geo.KindInvalidAddress,
			Address: destination,
			Detail:  "empty distance matrix",
		}
	}
	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, &geo.Error{
			Kind:    geo.KindInvalidAddress,
			Address: destination,
			Detail:  "no route: " + element.Status,
		}
	}
	return float64(element.Distance.Value) / 1000.0, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, address string, out any) error {
	params.Set("key", c.apiKey)
	if c.region != "" {
		params.Set("region", c.region)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &geo.Error{Kind: geo.KindNetwork, Address: address, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &geo.Error{Kind: geo.KindNetwork, Address: address, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &geo.Error{
			Kind:       geo.KindRateLimited,
			Address:    address,
			Detail:     "http 429",
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return &geo.Error{
			Kind:    geo.KindNetwork,
			Address: address,
			Detail:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &geo.Error{Kind: geo.KindNetwork, Address: address, Detail: "malformed response", Err: err}
	}
	return nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// statusError maps a Google Maps API status to a geo error, or nil for
// OK.
func statusError(status, address string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "INVALID_REQUEST", "NOT_FOUND":
		return &geo.Error{Kind: geo.KindInvalidAddress, Address: address, Detail: "status " + status}
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "RESOURCE_EXHAUSTED":
		return &geo.Error{Kind: geo.KindRateLimited, Address: address, Detail: "status " + status}
	default:
		return &geo.Error{Kind: geo.KindNetwork, Address: address, Detail: "status " + status}
	}
}
