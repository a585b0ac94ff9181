package sources

import (
	"context"

	"github.com/bvofrades/incident-bot/internal/models"
)

// Feed returns the current batch of active incidents.
type Feed interface {
	FetchIncidents(ctx context.Context) ([]models.Incident, error)
}

// Geocoder resolves a free-text place query to a coordinate. A nil
// coordinate with a nil error means no match.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*models.Coordinate, error)
}

// WeatherProvider returns current conditions at a coordinate.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, coord models.Coordinate) (*models.Weather, error)
}

// WaterPointSource loads the water point candidate set. Implementations
// never fail hard: a transport error degrades to an empty set.
type WaterPointSource interface {
	Load(ctx context.Context) []models.WaterPoint
}

// MapRenderer produces a static map image reference for an incident, its
// nearest water point, and an optional requester location.
type MapRenderer interface {
	RenderURL(incident, waterPoint models.Coordinate, user *models.Coordinate) string
}
