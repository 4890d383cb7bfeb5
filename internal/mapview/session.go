// Package mapview owns the explore-map state: which users are plotted,
// which route is shown, and where the viewport sits. It is the single
// place that decides how fetch and directions outcomes change what the map
// renders.
package mapview

import (
	"context"
	"sync"

	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/usecase/directory"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle              State = "idle"
	StateLoadingUsers      State = "loading-users"
	StateUsersLoaded       State = "users-loaded"
	StateLoadingDirections State = "loading-directions"
	StateDirectionsShown   State = "directions-shown"
	StateError             State = "error"
)

// UserFetcher is the directory client surface the session drives.
type UserFetcher interface {
	FetchUsers(ctx context.Context, filters domain.SearchFilters) ([]domain.User, error)
}

// DirectionsProvider resolves a route on demand.
type DirectionsProvider interface {
	GetDirections(ctx context.Context, origin, destination domain.Coordinate, mode domain.TravelMode) domain.DirectionsResult
}

type Viewport struct {
	Center domain.Coordinate
	Zoom   int
}

// SearchRadius is the circle drawn around a proximity search.
type SearchRadius struct {
	Center   domain.Coordinate
	RadiusKm float64
}

// Session is safe for concurrent use. Overlapping ApplyFilters calls are
// serialized by generation: each fetch is stamped when it starts, and a
// result is applied only if no newer fetch started in the meantime, so an
// old response can never overwrite a newer one.
type Session struct {
	fetcher    UserFetcher
	directions DirectionsProvider
	logger     *zap.Logger

	mu           sync.Mutex
	state        State
	generation   uint64
	users        []domain.User
	route        *domain.RouteInfo
	viewport     Viewport
	searchRadius *SearchRadius
	lastError    string
}

func NewSession(fetcher UserFetcher, directions DirectionsProvider, logger *zap.Logger) *Session {
	return &Session{
		fetcher:    fetcher,
		directions: directions,
		logger:     logger,
		state:      StateIdle,
		viewport:   Viewport{Center: domain.Coordinate{Lat: 30, Lon: 0}, Zoom: 2},
	}
}

// ApplyFilters starts a user fetch for the given filters and applies the
// result unless a newer fetch superseded it. When the filters carry a
// center and radius, fetched users are post-filtered by great-circle
// distance and the search circle becomes part of the view state.
func (s *Session) ApplyFilters(ctx context.Context, filters domain.SearchFilters) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = StateLoadingUsers
	s.mu.Unlock()

	users, err := s.fetcher.FetchUsers(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding superseded fetch result",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.generation))
		return
	}

	if err != nil {
		s.state = StateError
		s.lastError = err.Error()
		s.logger.Warn("user fetch failed", zap.Error(err))
		return
	}

	if filters.Center != nil && filters.RadiusKm > 0 {
		users = directory.FilterByRadius(users, *filters.Center, filters.RadiusKm)
		s.searchRadius = &SearchRadius{Center: *filters.Center, RadiusKm: filters.RadiusKm}
		s.viewport.Center = *filters.Center
	} else {
		s.searchRadius = nil
	}

	s.users = users
	s.route = nil
	s.lastError = ""
	s.state = StateUsersLoaded
}

// SelectUser opens a user's info without changing the session state.
// It returns nil when the user is not plotted.
func (s *Session) SelectUser(id int) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u
		}
	}
	return nil
}

// RequestDirections resolves a route between two points. Failure keeps the
// loaded users on screen with an inline error instead of tearing the
// session down.
func (s *Session) RequestDirections(ctx context.Context, origin, destination domain.Coordinate, mode domain.TravelMode) domain.DirectionsResult {
	s.mu.Lock()
	if s.state != StateUsersLoaded && s.state != StateDirectionsShown {
		s.mu.Unlock()
		return domain.DirectionsResult{
			Status:       domain.DirectionsError,
			Routes:       []domain.RouteInfo{},
			ErrorMessage: "directions are only available once users are loaded",
		}
	}
	s.state = StateLoadingDirections
	s.mu.Unlock()

	result := s.directions.GetDirections(ctx, origin, destination, mode)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch result.Status {
	case domain.DirectionsOK:
		s.route = &result.Routes[0]
		s.lastError = ""
		s.state = StateDirectionsShown
	case domain.DirectionsZeroResults:
		s.route = nil
		s.lastError = ""
		s.state = StateUsersLoaded
	default:
		s.route = nil
		s.lastError = result.ErrorMessage
		s.state = StateUsersLoaded
	}
	return result
}

// ClearRoute drops the shown route and returns to the user layer.
func (s *Session) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDirectionsShown {
		s.route = nil
		s.state = StateUsersLoaded
	}
}

// DismissError recovers from the error state. With users still loaded the
// session returns to them; otherwise it goes back to idle.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateError {
		return
	}
	s.lastError = ""
	if len(s.users) > 0 {
		s.state = StateUsersLoaded
	} else {
		s.state = StateIdle
	}
}

// Reset returns the session to its initial state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.users = nil
	s.route = nil
	s.searchRadius = nil
	s.lastError = ""
}

func (s *Session) SetViewport(v Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.User, len(s.users))
	copy(users, s.users)
	return users
}

func (s *Session) Route() *domain.RouteInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Session) Radius() *SearchRadius {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchRadius
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}
