// Package geo provides the great-circle math used to match incidents with
// nearby water points and to describe wind bearings.
package geo

import (
	"math"

	"github.com/bvofrades/incident-bot/internal/models"
)

const earthRadiusKm = 6371

var compassLabels = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// DistanceKm returns the haversine distance between two coordinates.
func DistanceKm(a, b models.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Nearest scans candidates in order and returns the one closest to origin.
// Ties keep the earlier candidate. Returns nil for an empty candidate set.
func Nearest(origin models.Coordinate, candidates []models.WaterPoint) *models.NearestWaterPoint {
	var best *models.NearestWaterPoint

	for _, c := range candidates {
		d := DistanceKm(origin, c.Coordinate())
		if best == nil || d < best.DistanceKm {
			best = &models.NearestWaterPoint{WaterPoint: c, DistanceKm: d}
		}
	}

	return best
}

// Compass maps a bearing in degrees to the nearest of the 8 principal
// directions. Any input wraps modulo 360, including negative bearings.
func Compass(deg float64) string {
	idx := int(math.Floor(deg/45+0.5)) % 8
	if idx < 0 {
		idx += 8
	}
	return compassLabels[idx]
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
