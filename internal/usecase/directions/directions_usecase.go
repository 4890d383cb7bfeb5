package directions

import (
	"context"
	"errors"

	"github.com/globalconnect/backend/internal/client/osrm"
	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/geo"
	"go.uber.org/zap"
)

// Router is the slice of the OSRM client this usecase needs.
type Router interface {
	GetRoute(ctx context.Context, origin, destination domain.Coordinate, mode domain.TravelMode) (*osrm.Response, error)
}

type DirectionsUseCase struct {
	router Router
	logger *zap.Logger
}

func NewDirectionsUseCase(router Router, logger *zap.Logger) *DirectionsUseCase {
	return &DirectionsUseCase{router: router, logger: logger}
}

// GetDirections resolves a route and maps it onto the app's route model.
// The three-way status keeps "no route exists" apart from "the router
// broke"; only the latter carries an error message.
func (uc *DirectionsUseCase) GetDirections(ctx context.Context, origin, destination domain.Coordinate, mode domain.TravelMode) domain.DirectionsResult {
	resp, err := uc.router.GetRoute(ctx, origin, destination, mode)
	if err != nil {
		if errors.Is(err, osrm.ErrNoRoute) {
			return domain.DirectionsResult{
				Status: domain.DirectionsZeroResults,
				Routes: []domain.RouteInfo{},
			}
		}
		uc.logger.Warn("directions request failed", zap.Error(err))
		return domain.DirectionsResult{
			Status:       domain.DirectionsError,
			Routes:       []domain.RouteInfo{},
			ErrorMessage: err.Error(),
		}
	}

	routes := make([]domain.RouteInfo, 0, len(resp.Routes))
	for _, raw := range resp.Routes {
		route, err := uc.buildRoute(raw)
		if err != nil {
			uc.logger.Warn("dropping undecodable route", zap.Error(err))
			continue
		}
		routes = append(routes, route)
	}

	if len(routes) == 0 {
		return domain.DirectionsResult{
			Status:       domain.DirectionsError,
			Routes:       []domain.RouteInfo{},
			ErrorMessage: "router returned no usable route geometry",
		}
	}
	return domain.DirectionsResult{Status: domain.DirectionsOK, Routes: routes}
}

func (uc *DirectionsUseCase) buildRoute(raw osrm.Route) (domain.RouteInfo, error) {
	geometry, err := geo.DecodePolyline(raw.Geometry)
	if err != nil {
		return domain.RouteInfo{}, err
	}

	var instructions []domain.RouteInstruction
	for _, leg := range raw.Legs {
		for _, step := range leg.Steps {
			instructions = append(instructions, domain.RouteInstruction{
				Text:            instructionText(step),
				DistanceMeters:  step.Distance,
				DurationSeconds: step.Duration,
				Maneuver:        step.Maneuver.Type,
			})
		}
	}

	return domain.RouteInfo{
		DistanceMeters:  raw.Distance,
		DurationSeconds: raw.Duration,
		Geometry:        geometry,
		Instructions:    instructions,
	}, nil
}

// instructionText prefers the router's phrasing and falls back to the
// street name.
func instructionText(step osrm.Step) string {
	if step.Maneuver.Instruction != "" {
		return step.Maneuver.Instruction
	}
	if step.Name != "" {
		return step.Name
	}
	return "Continue on your route"
}
