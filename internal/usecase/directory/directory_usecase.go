package directory

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/geo"
	"github.com/globalconnect/backend/internal/repository"
	"go.uber.org/zap"
)

const searchLimit = 100

// Config carries the search-radius bounds and the opt-in demo mode.
// Placeholder synthesis never happens unless DemoMode is set: an empty
// result set means an empty map.
type Config struct {
	DefaultRadiusKm  float64
	MaxRadiusKm      float64
	DemoMode         bool
	PlaceholderUsers int
	DefaultCenter    domain.Coordinate
}

type DirectoryUseCase struct {
	userRepo     repository.UserRepository
	interestRepo repository.InterestRepository
	cfg          Config
	logger       *zap.Logger
}

func NewDirectoryUseCase(
	userRepo repository.UserRepository,
	interestRepo repository.InterestRepository,
	cfg Config,
	logger *zap.Logger,
) *DirectoryUseCase {
	return &DirectoryUseCase{
		userRepo:     userRepo,
		interestRepo: interestRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// Search runs the directory query and, when a center and radius are given,
// keeps only users within great-circle range of the center.
func (uc *DirectoryUseCase) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.User, error) {
	users, err := uc.userRepo.Search(ctx, filters, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	if filters.Center != nil {
		radius := filters.RadiusKm
		if radius <= 0 {
			radius = uc.cfg.DefaultRadiusKm
		}
		if uc.cfg.MaxRadiusKm > 0 && radius > uc.cfg.MaxRadiusKm {
			radius = uc.cfg.MaxRadiusKm
		}
		users = FilterByRadius(users, *filters.Center, radius)
	}

	if len(users) == 0 && uc.cfg.DemoMode {
		center := uc.cfg.DefaultCenter
		if filters.Center != nil {
			center = *filters.Center
		}
		radius := filters.RadiusKm
		if radius <= 0 {
			radius = uc.cfg.DefaultRadiusKm
		}
		users = uc.placeholderUsers(center, radius)
		uc.logger.Info("demo mode filled empty result with placeholders",
			zap.Int("count", len(users)))
	}

	return users, nil
}

// FilterByRadius keeps users whose great-circle distance to center does not
// exceed radiusKm. Users without a plottable location are dropped.
func FilterByRadius(users []domain.User, center domain.Coordinate, radiusKm float64) []domain.User {
	kept := make([]domain.User, 0, len(users))
	for _, u := range users {
		if !u.HasLocation() {
			continue
		}
		if geo.DistanceKm(center, u.Coordinate()) <= radiusKm {
			kept = append(kept, u)
		}
	}
	return kept
}

// ListInterests returns the distinct interest tags, best-effort: on failure
// the caller gets an empty list and the error stays in the log.
func (uc *DirectoryUseCase) ListInterests(ctx context.Context) []string {
	interests, err := uc.interestRepo.ListDistinct(ctx)
	if err != nil {
		uc.logger.Warn("failed to list interests", zap.Error(err))
		return []string{}
	}
	if interests == nil {
		interests = []string{}
	}
	return interests
}

// placeholderUsers scatters synthetic users uniformly within the radius so
// the map has something to show during demos.
func (uc *DirectoryUseCase) placeholderUsers(center domain.Coordinate, radiusKm float64) []domain.User {
	interests := []string{"Travel", "Photography", "Music", "Art", "Technology"}
	users := make([]domain.User, 0, uc.cfg.PlaceholderUsers)

	for i := 0; i < uc.cfg.PlaceholderUsers; i++ {
		// Uniform over the disk: radius scales with sqrt of the draw.
		r := radiusKm * math.Sqrt(rand.Float64())
		theta := rand.Float64() * 2 * math.Pi

		lat := center.Lat + (r*math.Cos(theta))/110.574
		lon := center.Lon + (r*math.Sin(theta))/(111.320*math.Cos(center.Lat*math.Pi/180))

		name := fmt.Sprintf("Demo User %d", i+1)
		users = append(users, domain.User{
			ID:        -(i + 1), // negative IDs keep placeholders apart from real rows
			Name:      name,
			Email:     fmt.Sprintf("demo%d@example.com", i+1),
			Latitude:  &lat,
			Longitude: &lon,
			Interests: []string{interests[i%len(interests)], interests[(i+2)%len(interests)]},
		})
	}
	return users
}
