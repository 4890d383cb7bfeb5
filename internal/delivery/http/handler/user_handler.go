package handler

import (
	"net/http"
	"strconv"

	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/usecase/directory"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	directoryUseCase *directory.DirectoryUseCase
	logger           *zap.Logger
}

func NewUserHandler(directoryUseCase *directory.DirectoryUseCase, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		directoryUseCase: directoryUseCase,
		logger:           logger,
	}
}

// UsersResponse is the directory envelope. The endpoint always answers 200
// so the client's parsing path stays uniform; failures show up as an empty
// list plus the error string.
type UsersResponse struct {
	Users   []domain.User `json:"users"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
}

// Search handles GET /api/users
// @Summary Search the user directory
// @Description Filter users by free text, gender, age range, interests and optional proximity
// @Tags users
// @Produce json
// @Param query query string false "Free-text match on name or location"
// @Param gender query string false "Exact gender match"
// @Param minAge query int false "Minimum age, inclusive"
// @Param maxAge query int false "Maximum age, inclusive"
// @Param interest query []string false "Interest tags, repeatable, match-any"
// @Param lat query number false "Proximity center latitude"
// @Param lon query number false "Proximity center longitude"
// @Param radius query number false "Proximity radius in km"
// @Success 200 {object} UsersResponse
// @Router /api/users [get]
func (h *UserHandler) Search(c *gin.Context) {
	filters := domain.DefaultSearchFilters()
	filters.Query = c.Query("query")
	filters.Gender = c.Query("gender")
	filters.Interests = c.QueryArray("interest")

	if v, err := strconv.Atoi(c.DefaultQuery("minAge", "0")); err == nil {
		filters.MinAge = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("maxAge", "100")); err == nil {
		filters.MaxAge = v
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" && lonStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat == nil && errLon == nil {
			filters.Center = &domain.Coordinate{Lat: lat, Lon: lon}
			if r, err := strconv.ParseFloat(c.Query("radius"), 64); err == nil {
				filters.RadiusKm = r
			}
		}
	}

	users, err := h.directoryUseCase.Search(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("directory search failed", zap.Error(err))
		c.JSON(http.StatusOK, UsersResponse{
			Users:   []domain.User{},
			Success: false,
			Error:   err.Error(),
		})
		return
	}
	if users == nil {
		users = []domain.User{}
	}

	c.JSON(http.StatusOK, UsersResponse{Users: users, Success: true})
}

// ListInterests handles GET /api/interests
// @Summary List distinct interest tags
// @Tags users
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/interests [get]
func (h *UserHandler) ListInterests(c *gin.Context) {
	interests := h.directoryUseCase.ListInterests(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"interests": interests})
}
