package domain

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SearchFilters describes one directory search. Filters are value objects
// rebuilt per request; zero values mean "not filtered".
type SearchFilters struct {
	Query     string
	Gender    string
	MinAge    int
	MaxAge    int
	Interests []string
	Center    *Coordinate
	RadiusKm  float64
}

// DefaultSearchFilters returns filters with the age range wide open.
func DefaultSearchFilters() SearchFilters {
	return SearchFilters{MinAge: 0, MaxAge: 100}
}

// SearchResultKind discriminates autocomplete results.
type SearchResultKind string

const (
	SearchResultLocation SearchResultKind = "location"
	SearchResultUser     SearchResultKind = "user"
)

// SearchResult unifies "search a place" and "search a person" into one
// autocomplete result list.
type SearchResult struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Coordinate  Coordinate       `json:"coordinate"`
	Kind        SearchResultKind `json:"kind"`
}
