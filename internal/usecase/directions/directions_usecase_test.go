package directions

import (
	"context"
	"errors"
	"testing"

	"github.com/globalconnect/backend/internal/client/osrm"
	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/geo"
	"go.uber.org/zap"
)

type fakeRouter struct {
	resp *osrm.Response
	err  error
}

func (f *fakeRouter) GetRoute(_ context.Context, _, _ domain.Coordinate, _ domain.TravelMode) (*osrm.Response, error) {
	return f.resp, f.err
}

func TestGetDirections_OK(t *testing.T) {
	origin := domain.Coordinate{Lat: 52.52, Lon: 13.405}
	destination := domain.Coordinate{Lat: 52.5, Lon: 13.42}
	geometry := geo.EncodePolyline([]domain.Coordinate{origin, {Lat: 52.51, Lon: 13.41}, destination})

	router := &fakeRouter{resp: &osrm.Response{
		Code: "Ok",
		Routes: []osrm.Route{{
			Distance: 2100,
			Duration: 360,
			Geometry: geometry,
			Legs: []osrm.Leg{{
				Steps: []osrm.Step{
					{Distance: 1000, Duration: 180, Name: "Unter den Linden",
						Maneuver: osrm.Maneuver{Type: "depart", Instruction: "Head east"}},
					{Distance: 1100, Duration: 180, Name: "Friedrichstrasse",
						Maneuver: osrm.Maneuver{Type: "turn"}},
					{Maneuver: osrm.Maneuver{Type: "arrive"}},
				},
			}},
		}},
	}}

	uc := NewDirectionsUseCase(router, zap.NewNop())
	result := uc.GetDirections(context.Background(), origin, destination, domain.TravelModeDriving)

	if result.Status != domain.DirectionsOK {
		t.Fatalf("status=%q want=%q (%s)", result.Status, domain.DirectionsOK, result.ErrorMessage)
	}
	if len(result.Routes) != 1 {
		t.Fatalf("routes=%d want=1", len(result.Routes))
	}

	route := result.Routes[0]
	if route.DistanceMeters != 2100 || route.DurationSeconds != 360 {
		t.Fatalf("route=%+v", route)
	}

	// Decoded geometry starts at the origin and ends at the destination.
	if len(route.Geometry) != 3 {
		t.Fatalf("geometry points=%d want=3", len(route.Geometry))
	}
	if route.Geometry[0] != origin || route.Geometry[2] != destination {
		t.Fatalf("geometry endpoints=%v,%v", route.Geometry[0], route.Geometry[2])
	}

	if len(route.Instructions) != 3 {
		t.Fatalf("instructions=%d want=3", len(route.Instructions))
	}
	if route.Instructions[0].Text != "Head east" {
		t.Fatalf("instruction text=%q", route.Instructions[0].Text)
	}
	// Without router phrasing the street name is used, then a generic fallback.
	if route.Instructions[1].Text != "Friedrichstrasse" {
		t.Fatalf("instruction text=%q", route.Instructions[1].Text)
	}
	if route.Instructions[2].Text != "Continue on your route" {
		t.Fatalf("instruction text=%q", route.Instructions[2].Text)
	}
}

func TestGetDirections_ZeroResults(t *testing.T) {
	uc := NewDirectionsUseCase(&fakeRouter{err: osrm.ErrNoRoute}, zap.NewNop())

	result := uc.GetDirections(context.Background(),
		domain.Coordinate{Lat: 51.5, Lon: -0.12},
		domain.Coordinate{Lat: -33.86, Lon: 151.2},
		domain.TravelModeDriving)

	if result.Status != domain.DirectionsZeroResults {
		t.Fatalf("status=%q want=%q", result.Status, domain.DirectionsZeroResults)
	}
	if len(result.Routes) != 0 {
		t.Fatalf("routes=%d want=0", len(result.Routes))
	}
	if result.ErrorMessage != "" {
		t.Fatalf("error message=%q want empty", result.ErrorMessage)
	}
}

func TestGetDirections_RouterFailure(t *testing.T) {
	uc := NewDirectionsUseCase(&fakeRouter{err: errors.New("connection refused")}, zap.NewNop())

	result := uc.GetDirections(context.Background(),
		domain.Coordinate{Lat: 1, Lon: 1},
		domain.Coordinate{Lat: 2, Lon: 2},
		domain.TravelModeWalking)

	if result.Status != domain.DirectionsError {
		t.Fatalf("status=%q want=%q", result.Status, domain.DirectionsError)
	}
	if result.ErrorMessage == "" {
		t.Fatal("want non-empty error message")
	}
}

func TestGetDirections_UndecodableGeometry(t *testing.T) {
	router := &fakeRouter{resp: &osrm.Response{
		Code:   "Ok",
		Routes: []osrm.Route{{Geometry: "_p~iF"}},
	}}
	uc := NewDirectionsUseCase(router, zap.NewNop())

	result := uc.GetDirections(context.Background(),
		domain.Coordinate{Lat: 1, Lon: 1},
		domain.Coordinate{Lat: 2, Lon: 2},
		domain.TravelModeDriving)

	if result.Status != domain.DirectionsError {
		t.Fatalf("status=%q want=%q", result.Status, domain.DirectionsError)
	}
}
