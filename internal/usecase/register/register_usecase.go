package register

import (
	"context"
	"fmt"

	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ReverseGeocoder names the captured location. Best-effort: the fallback
// string is stored when the geocoder is unreachable.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, coord domain.Coordinate) string
}

type RegisterRequest struct {
	Name      string   `json:"name" binding:"required,min=2"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8"`
	Bio       *string  `json:"bio"`
	Gender    *string  `json:"gender"`
	Age       *int     `json:"age" binding:"omitempty,gte=18,lte=120"`
	Interests []string `json:"interests"`
	Location  *struct {
		Lat float64 `json:"lat" binding:"gte=-90,lte=90"`
		Lon float64 `json:"lon" binding:"gte=-180,lte=180"`
	} `json:"location"`
}

type RegisterUseCase struct {
	userRepo repository.UserRepository
	geocoder ReverseGeocoder
	logger   *zap.Logger
}

func NewRegisterUseCase(userRepo repository.UserRepository, geocoder ReverseGeocoder, logger *zap.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: userRepo,
		geocoder: geocoder,
		logger:   logger,
	}
}

// Register creates the user with an optional one-time location capture.
// No session or token is issued here.
func (uc *RegisterUseCase) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:      req.Name,
		Email:     req.Email,
		Bio:       req.Bio,
		Gender:    req.Gender,
		Age:       req.Age,
		Interests: req.Interests,
	}

	if err := uc.userRepo.Create(ctx, user, string(hash)); err != nil {
		return nil, err
	}

	if req.Location != nil {
		coord := domain.Coordinate{Lat: req.Location.Lat, Lon: req.Location.Lon}
		locationName := uc.geocoder.ReverseGeocode(ctx, coord)

		if err := uc.userRepo.SetLocation(ctx, user.ID, coord.Lat, coord.Lon, locationName); err != nil {
			// The account exists; a failed location capture should not
			// undo registration.
			uc.logger.Warn("failed to store registration location",
				zap.Int("user_id", user.ID),
				zap.Error(err))
		} else {
			user.Latitude = &coord.Lat
			user.Longitude = &coord.Lon
			user.LocationName = &locationName
		}
	}

	uc.logger.Info("user registered", zap.Int("user_id", user.ID))
	return user, nil
}
