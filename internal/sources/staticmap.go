package sources

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bvofrades/incident-bot/internal/models"
)

// MapboxRenderer builds Mapbox Static Images URLs with labeled markers for
// the incident, the nearest water point, and an optional requester
// location. The image itself is rendered by Mapbox when the messaging
// platform fetches the URL.
type MapboxRenderer struct {
	token   string
	baseURL string
}

var _ MapRenderer = (*MapboxRenderer)(nil)

const (
	mapWidth  = 800
	mapHeight = 600
	mapStyle  = "satellite-streets-v12"
)

// NewMapboxRenderer creates a static map URL builder.
func NewMapboxRenderer(token string) *MapboxRenderer {
	return &MapboxRenderer{
		token:   token,
		baseURL: "https://api.mapbox.com/styles/v1/mapbox",
	}
}

// RenderURL returns a static map reference, or "" when no token is
// configured (the notification then degrades to text-only).
func (r *MapboxRenderer) RenderURL(incident, waterPoint models.Coordinate, user *models.Coordinate) string {
	if r.token == "" {
		return ""
	}

	markers := []string{
		marker("l", "fire-station", "e74c3c", incident),
		marker("l", "water", "3498db", waterPoint),
	}
	if user != nil {
		markers = append(markers, marker("s", "marker", "2ecc71", *user))
	}

	return fmt.Sprintf("%s/%s/static/%s/auto/%dx%d?access_token=%s",
		r.baseURL, mapStyle, strings.Join(markers, ","),
		mapWidth, mapHeight, url.QueryEscape(r.token))
}

func marker(size, icon, color string, c models.Coordinate) string {
	// Mapbox expects lon,lat order.
	return fmt.Sprintf("pin-%s-%s+%s(%.5f,%.5f)", size, icon, color, c.Lon, c.Lat)
}
