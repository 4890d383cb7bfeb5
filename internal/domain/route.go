package domain

import "fmt"

// TravelMode selects the routing profile.
type TravelMode string

const (
	TravelModeDriving TravelMode = "driving"
	TravelModeWalking TravelMode = "walking"
	TravelModeCycling TravelMode = "cycling"
)

// DirectionsStatus is the three-way outcome of a directions request:
// "nothing to show" is not the same thing as "something broke".
type DirectionsStatus string

const (
	DirectionsOK          DirectionsStatus = "OK"
	DirectionsZeroResults DirectionsStatus = "ZERO_RESULTS"
	DirectionsError       DirectionsStatus = "ERROR"
)

// RouteInstruction is one turn-by-turn step. Distances are meters,
// durations seconds.
type RouteInstruction struct {
	Text            string  `json:"text"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Maneuver        string  `json:"maneuver"`
}

// RouteInfo is a single resolved route. Geometry runs start to end; the
// first and last coordinates match the requested origin and destination
// within polyline rounding.
type RouteInfo struct {
	DistanceMeters  float64            `json:"distance_meters"`
	DurationSeconds float64            `json:"duration_seconds"`
	Geometry        []Coordinate       `json:"geometry"`
	Instructions    []RouteInstruction `json:"instructions"`
}

type DirectionsResult struct {
	Status       DirectionsStatus `json:"status"`
	Routes       []RouteInfo      `json:"routes"`
	ErrorMessage string           `json:"error_message,omitempty"`
}

// FormatDistance renders meters as "850 m" or "12.3 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as "12 min" or "1 h 5 min".
func FormatDuration(seconds float64) string {
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%.0f min", minutes)
	}
	hours := int(minutes) / 60
	mins := int(minutes) % 60
	return fmt.Sprintf("%d h %d min", hours, mins)
}
