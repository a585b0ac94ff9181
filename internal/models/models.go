package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Incident is a single record from the incident feed. The upstream API is
// loosely typed: ids arrive as strings or numbers depending on the feed
// variant, and coordinates arrive as strings, numbers or null. All of that
// is normalized to strings here, once, at the JSON boundary.
type Incident struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Hour       string `json:"hour"`
	Natureza   string `json:"natureza"`
	Concelho   string `json:"concelho"`
	Localidade string `json:"localidade"`
	Lat        string `json:"lat"`
	Lng        string `json:"lng"`
}

// UnmarshalJSON tolerates string/number/null values for id, lat and lng.
func (i *Incident) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		Date       string          `json:"date"`
		Hour       string          `json:"hour"`
		Natureza   string          `json:"natureza"`
		Concelho   string          `json:"concelho"`
		Localidade string          `json:"localidade"`
		Lat        json.RawMessage `json:"lat"`
		Lng        json.RawMessage `json:"lng"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	i.Date = raw.Date
	i.Hour = raw.Hour
	i.Natureza = raw.Natureza
	i.Concelho = raw.Concelho
	i.Localidade = raw.Localidade
	i.ID = flexString(raw.ID)
	i.Lat = flexString(raw.Lat)
	i.Lng = flexString(raw.Lng)

	return nil
}

// flexString renders a raw JSON scalar as a plain string. null and
// unsupported values become the empty string.
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return ""
}

// Coordinate is a resolved latitude/longitude pair. Absence of a coordinate
// is expressed as a nil *Coordinate throughout the pipeline.
type Coordinate struct {
	Lat float64
	Lon float64
}

// WaterPoint is a fixed emergency water source loaded from the snapshot.
type WaterPoint struct {
	Name string
	Type string
	Lat  float64
	Lon  float64
}

// Coordinate returns the point's location.
func (w WaterPoint) Coordinate() Coordinate {
	return Coordinate{Lat: w.Lat, Lon: w.Lon}
}

// NearestWaterPoint is a WaterPoint plus its computed distance from an
// origin coordinate. Derived per lookup, never cached across incidents.
type NearestWaterPoint struct {
	WaterPoint
	DistanceKm float64
}

// Weather is the subset of the weather provider response the pipeline uses.
type Weather struct {
	TempC        float64
	WindSpeedKmh float64
	WindDeg      float64
	Humidity     int
}

// NotificationPayload is the assembled message for one incident. PhotoURL
// is empty for text-only notifications.
type NotificationPayload struct {
	IncidentID string
	Text       string
	PhotoURL   string
	ActionText string
	ActionURL  string
}

// HasPhoto reports whether the payload carries a map image.
func (p NotificationPayload) HasPhoto() bool {
	return strings.TrimSpace(p.PhotoURL) != ""
}

// DeliveryResult is the outcome reported by the messaging endpoint.
type DeliveryResult struct {
	OK          bool
	StatusCode  int
	Description string
}
