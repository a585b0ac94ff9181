package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/bvofrades/incident-bot/internal/sources"
	"github.com/sirupsen/logrus"
)

// Resolver turns an incident into a coordinate. Direct lat/lng fields take
// priority; a place-name geocoding fallback runs only when they are absent
// or unparseable. Failure of both paths yields nil, never an error.
type Resolver struct {
	geocoder   sources.Geocoder // nil disables the fallback
	country    string
	rejectZero bool
}

// NewResolver creates a resolver. Passing a nil geocoder disables the
// place-name fallback entirely (some deployments run without it).
func NewResolver(geocoder sources.Geocoder, country string, rejectZero bool) *Resolver {
	return &Resolver{
		geocoder:   geocoder,
		country:    country,
		rejectZero: rejectZero,
	}
}

// Resolve returns the incident's coordinate, or nil when unresolvable.
func (r *Resolver) Resolve(ctx context.Context, incident models.Incident) *models.Coordinate {
	lat, latOK := r.parseCoordinate(incident.Lat)
	lon, lonOK := r.parseCoordinate(incident.Lng)
	if latOK && lonOK {
		return &models.Coordinate{Lat: lat, Lon: lon}
	}

	if r.geocoder == nil {
		return nil
	}

	query := fmt.Sprintf("%s, %s, %s", incident.Localidade, incident.Concelho, r.country)
	logrus.Debugf("No usable coordinates on incident %s, geocoding %q", incident.ID, query)

	coord, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		logrus.Warnf("Geocoding fallback failed for incident %s: %v", incident.ID, err)
		return nil
	}

	return coord
}

func (r *Resolver) parseCoordinate(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}

	// Legacy compatibility: the original bot's falsy check rejected zero,
	// misclassifying equator/meridian points as missing.
	if r.rejectZero && parsed == 0 {
		return 0, false
	}

	return parsed, true
}
