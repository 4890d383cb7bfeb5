// Package osrm is a thin client for an OSRM-compatible routing endpoint.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/globalconnect/backend/internal/domain"
	"go.uber.org/zap"
)

// ErrNoRoute is returned when the router answers but reports that no route
// exists between the requested points.
var ErrNoRoute = errors.New("no route found")

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Response mirrors the OSRM /route/v1 payload, trimmed to the fields the
// directions pipeline consumes.
type Response struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Routes  []Route `json:"routes"`
}

type Route struct {
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
	Geometry string  `json:"geometry"` // encoded polyline
	Legs     []Leg   `json:"legs"`
}

type Leg struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Steps    []Step  `json:"steps"`
}

type Step struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Name     string   `json:"name"`
	Maneuver Maneuver `json:"maneuver"`
}

type Maneuver struct {
	Type        string `json:"type"`
	Modifier    string `json:"modifier"`
	Instruction string `json:"instruction"`
}

// profileFor maps the app's travel modes to OSRM profiles.
func profileFor(mode domain.TravelMode) string {
	switch mode {
	case domain.TravelModeCycling:
		return "bike"
	case domain.TravelModeWalking:
		return "foot"
	default:
		return "car"
	}
}

// noRouteCodes are the OSRM codes that mean "nothing to show" rather than
// "something broke".
func isNoRouteCode(code string) bool {
	switch code {
	case "NoRoute", "NoSegment", "NoMatch":
		return true
	}
	return false
}

// GetRoute requests a route between two geographic coordinates. It returns
// ErrNoRoute when the router reports a no-route code, and a descriptive
// error on transport failure or an unexpected payload.
func (c *Client) GetRoute(ctx context.Context, origin, destination domain.Coordinate, mode domain.TravelMode) (*Response, error) {
	// OSRM takes lon,lat pairs.
	reqURL := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=polyline&steps=true",
		c.baseURL, profileFor(mode),
		origin.Lon, origin.Lat,
		destination.Lon, destination.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// OSRM reports NoRoute with a 400, so decode the body before
		// deciding this is a hard failure.
		var body Response
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil && isNoRouteCode(body.Code) {
			return nil, ErrNoRoute
		}
		return nil, fmt.Errorf("OSRM API error: %d", resp.StatusCode)
	}

	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if isNoRouteCode(body.Code) {
		return nil, ErrNoRoute
	}
	if body.Code != "Ok" {
		return nil, fmt.Errorf("OSRM returned code %q: %s", body.Code, body.Message)
	}
	if len(body.Routes) == 0 {
		return nil, ErrNoRoute
	}

	c.logger.Debug("route resolved",
		zap.String("profile", profileFor(mode)),
		zap.Int("routes", len(body.Routes)),
		zap.Float64("distance_m", body.Routes[0].Distance))
	return &body, nil
}
