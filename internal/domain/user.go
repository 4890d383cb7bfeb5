package domain

import (
	"math"
	"time"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Bio          *string   `json:"bio" db:"bio"`
	AvatarURL    *string   `json:"avatar_url" db:"avatar_url"`
	Latitude     *float64  `json:"latitude" db:"latitude"`
	Longitude    *float64  `json:"longitude" db:"longitude"`
	Gender       *string   `json:"gender" db:"gender"`
	Age          *int      `json:"age" db:"age"`
	LocationName *string   `json:"location_name" db:"location_name"`
	Interests    []string  `json:"interests" db:"interests"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// HasLocation reports whether the user can be placed on a map.
// Both coordinates must be present and finite.
func (u *User) HasLocation() bool {
	if u.Latitude == nil || u.Longitude == nil {
		return false
	}
	if math.IsNaN(*u.Latitude) || math.IsInf(*u.Latitude, 0) {
		return false
	}
	if math.IsNaN(*u.Longitude) || math.IsInf(*u.Longitude, 0) {
		return false
	}
	return true
}

// Coordinate returns the user's position. Only valid when HasLocation is true.
func (u *User) Coordinate() Coordinate {
	return Coordinate{Lat: *u.Latitude, Lon: *u.Longitude}
}
