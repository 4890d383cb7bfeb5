// Package nominatim wraps the OpenStreetMap geocoding service. Lookups
// degrade to empty results on failure so callers never block on geocoding.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/globalconnect/backend/internal/domain"
	"go.uber.org/zap"
)

// minQueryLength: shorter queries return no results without a network call.
const minQueryLength = 2

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, userAgent string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// result is the wire shape of one Nominatim entry.
type result struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Type        string `json:"type"`
	Address     struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// SearchLocations looks up places matching the query. Transport failures,
// non-2xx responses, and malformed payloads all return an empty slice: the
// search box must keep working when the geocoder does not.
func (c *Client) SearchLocations(ctx context.Context, query string) []domain.SearchResult {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "5")
	params.Set("accept-language", "en")

	var results []result
	if err := c.get(ctx, "/search", params, &results); err != nil {
		c.logger.Warn("nominatim search failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	out := make([]domain.SearchResult, 0, len(results))
	for _, item := range results {
		lat, errLat := strconv.ParseFloat(item.Lat, 64)
		lon, errLon := strconv.ParseFloat(item.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		out = append(out, domain.SearchResult{
			ID:          fmt.Sprintf("place_%d", item.PlaceID),
			Name:        displayName(item),
			Description: description(item),
			Coordinate:  domain.Coordinate{Lat: lat, Lon: lon},
			Kind:        domain.SearchResultLocation,
		})
	}
	return out
}

// ReverseGeocode resolves a coordinate to a display name. Any failure
// yields the fixed fallback string.
func (c *Client) ReverseGeocode(ctx context.Context, coord domain.Coordinate) string {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "en")

	var res result
	if err := c.get(ctx, "/reverse", params, &res); err != nil {
		c.logger.Warn("nominatim reverse geocode failed",
			zap.Float64("lat", coord.Lat),
			zap.Float64("lon", coord.Lon),
			zap.Error(err))
		return "Unknown location"
	}
	if res.DisplayName == "" {
		return "Unknown location"
	}
	return res.DisplayName
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	// Nominatim's usage policy requires a descriptive client identifier.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("nominatim API error: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// displayName picks the most specific name available: street, then
// city-level place, then the first segment of the display name.
func displayName(item result) string {
	if item.Address.Road != "" {
		return item.Address.Road
	}
	if city := cityOf(item); city != "" {
		return city
	}
	if i := strings.Index(item.DisplayName, ","); i > 0 {
		return item.DisplayName[:i]
	}
	return item.DisplayName
}

func description(item result) string {
	city := cityOf(item)
	state := item.Address.State
	country := item.Address.Country

	if city != "" && (state != "" || country != "") {
		parts := make([]string, 0, 3)
		for _, p := range []string{city, state, country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	}
	return item.DisplayName
}

func cityOf(item result) string {
	switch {
	case item.Address.City != "":
		return item.Address.City
	case item.Address.Town != "":
		return item.Address.Town
	case item.Address.Village != "":
		return item.Address.Village
	}
	return ""
}
