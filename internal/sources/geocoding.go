package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// NominatimGeocoder resolves place names through the Nominatim search API.
type NominatimGeocoder struct {
	client  *resty.Client
	baseURL string
}

var _ Geocoder = (*NominatimGeocoder)(nil)

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewNominatimGeocoder creates a Nominatim client. Nominatim's usage policy
// requires an identifying User-Agent.
func NewNominatimGeocoder(baseURL string, timeout time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "BVOFradesBot/1.0 (Go)"),
		baseURL: baseURL,
	}
}

// Geocode returns the best match for the query, or nil when there is none.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (*models.Coordinate, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
			"limit":  "1",
		}).
		Get(g.baseURL)

	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode())
	}

	var results []nominatimResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	if len(results) == 0 {
		logrus.Debugf("Geocoding returned no match for %q", query)
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, fmt.Errorf("geocoding returned malformed coordinates for %q", query)
	}

	return &models.Coordinate{Lat: lat, Lon: lon}, nil
}
