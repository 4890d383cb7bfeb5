package handler

import (
	"net/http"
	"strconv"

	"github.com/globalconnect/backend/internal/client/nominatim"
	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/usecase/directions"
	"github.com/gin-gonic/gin"
)

type GeoHandler struct {
	geocoder          *nominatim.Client
	directionsUseCase *directions.DirectionsUseCase
}

func NewGeoHandler(geocoder *nominatim.Client, directionsUseCase *directions.DirectionsUseCase) *GeoHandler {
	return &GeoHandler{
		geocoder:          geocoder,
		directionsUseCase: directionsUseCase,
	}
}

// SearchLocations handles GET /api/geo/search
// @Summary Place autocomplete
// @Description Search places by name; degrades to an empty list on geocoder failure
// @Tags geo
// @Produce json
// @Param q query string true "Search text, at least 2 characters"
// @Success 200 {object} map[string][]domain.SearchResult
// @Router /api/geo/search [get]
func (h *GeoHandler) SearchLocations(c *gin.Context) {
	results := h.geocoder.SearchLocations(c.Request.Context(), c.Query("q"))
	if results == nil {
		results = []domain.SearchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ReverseGeocode handles GET /api/geo/reverse
// @Summary Resolve a coordinate to a display name
// @Tags geo
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /api/geo/reverse [get]
func (h *GeoHandler) ReverseGeocode(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "lat and lon are required numeric parameters",
		})
		return
	}

	name := h.geocoder.ReverseGeocode(c.Request.Context(), domain.Coordinate{Lat: lat, Lon: lon})
	c.JSON(http.StatusOK, gin.H{"display_name": name})
}

// GetDirections handles GET /api/directions
// @Summary Turn-by-turn directions between two points
// @Description Status OK with routes, ZERO_RESULTS when no route exists, ERROR with a message otherwise
// @Tags geo
// @Produce json
// @Param fromLat query number true "Origin latitude"
// @Param fromLon query number true "Origin longitude"
// @Param toLat query number true "Destination latitude"
// @Param toLon query number true "Destination longitude"
// @Param mode query string false "driving, walking or cycling" default(driving)
// @Success 200 {object} domain.DirectionsResult
// @Failure 400 {object} ErrorResponse
// @Router /api/directions [get]
func (h *GeoHandler) GetDirections(c *gin.Context) {
	fromLat, err1 := strconv.ParseFloat(c.Query("fromLat"), 64)
	fromLon, err2 := strconv.ParseFloat(c.Query("fromLon"), 64)
	toLat, err3 := strconv.ParseFloat(c.Query("toLat"), 64)
	toLon, err4 := strconv.ParseFloat(c.Query("toLon"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "fromLat, fromLon, toLat and toLon are required numeric parameters",
		})
		return
	}

	mode := domain.TravelMode(c.DefaultQuery("mode", string(domain.TravelModeDriving)))
	switch mode {
	case domain.TravelModeDriving, domain.TravelModeWalking, domain.TravelModeCycling:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "mode must be driving, walking or cycling",
		})
		return
	}

	result := h.directionsUseCase.GetDirections(
		c.Request.Context(),
		domain.Coordinate{Lat: fromLat, Lon: fromLon},
		domain.Coordinate{Lat: toLat, Lon: toLon},
		mode,
	)
	c.JSON(http.StatusOK, result)
}
