package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// waterPointTypes maps snapshot type tags to display labels. Anything not
// listed renders as unknown.
var waterPointTypes = map[string]string{
	"fire_hydrant":  "Marco de incêndio",
	"water_tank":    "Depósito de água",
	"reservoir":     "Reservatório",
	"pond":          "Charca",
	"suction_point": "Ponto de sucção",
	"water_well":    "Poço",
}

const unknownWaterPointType = "Desconhecido"

// WaterPointTypeLabel returns the display label for a snapshot type tag.
func WaterPointTypeLabel(tag string) string {
	if label, ok := waterPointTypes[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return label
	}
	return unknownWaterPointType
}

// GeoJSONWaterPointSource loads water points from a GeoJSON
// FeatureCollection snapshot. Features without a valid Point geometry are
// skipped with a warning.
type GeoJSONWaterPointSource struct {
	client      *resty.Client
	snapshotURL string
}

var _ WaterPointSource = (*GeoJSONWaterPointSource)(nil)

// NewGeoJSONWaterPointSource creates a GeoJSON snapshot loader.
func NewGeoJSONWaterPointSource(snapshotURL string, timeout time.Duration) *GeoJSONWaterPointSource {
	return &GeoJSONWaterPointSource{
		client:      resty.New().SetTimeout(timeout),
		snapshotURL: snapshotURL,
	}
}

type geoJSONFeature struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
	Properties struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"properties"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// Load fetches and parses the snapshot. Transport or parse failure of the
// whole document degrades to an empty set, never an error.
func (s *GeoJSONWaterPointSource) Load(ctx context.Context) []models.WaterPoint {
	body, err := fetchSnapshot(ctx, s.client, s.snapshotURL)
	if err != nil {
		logrus.Warnf("Water point snapshot unavailable: %v", err)
		return nil
	}

	var collection geoJSONCollection
	if err := json.Unmarshal(body, &collection); err != nil {
		logrus.Warnf("Failed to parse water point snapshot: %v", err)
		return nil
	}

	points := make([]models.WaterPoint, 0, len(collection.Features))
	for _, f := range collection.Features {
		if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
			logrus.Warnf("Skipping water point %q: invalid geometry", f.Properties.Name)
			continue
		}

		points = append(points, models.WaterPoint{
			Name: f.Properties.Name,
			Type: WaterPointTypeLabel(f.Properties.Type),
			Lon:  f.Geometry.Coordinates[0],
			Lat:  f.Geometry.Coordinates[1],
		})
	}

	return points
}

// CSVWaterPointSource loads water points from a tabular snapshot with
// name,type,latitude,longitude columns. Malformed rows are skipped.
type CSVWaterPointSource struct {
	client      *resty.Client
	snapshotURL string
}

var _ WaterPointSource = (*CSVWaterPointSource)(nil)

// NewCSVWaterPointSource creates a CSV snapshot loader.
func NewCSVWaterPointSource(snapshotURL string, timeout time.Duration) *CSVWaterPointSource {
	return &CSVWaterPointSource{
		client:      resty.New().SetTimeout(timeout),
		snapshotURL: snapshotURL,
	}
}

// Load fetches and parses the snapshot, degrading to an empty set on
// transport failure.
func (s *CSVWaterPointSource) Load(ctx context.Context) []models.WaterPoint {
	body, err := fetchSnapshot(ctx, s.client, s.snapshotURL)
	if err != nil {
		logrus.Warnf("Water point snapshot unavailable: %v", err)
		return nil
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	var points []models.WaterPoint
	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.Warnf("Skipping malformed water point row %d: %v", line, err)
			continue
		}
		if line == 0 && strings.EqualFold(record[0], "name") {
			continue // header row
		}
		if len(record) < 4 {
			logrus.Warnf("Skipping water point row %d: expected 4 columns, got %d", line, len(record))
			continue
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if latErr != nil || lonErr != nil {
			logrus.Warnf("Skipping water point row %d: malformed coordinates", line)
			continue
		}

		points = append(points, models.WaterPoint{
			Name: strings.TrimSpace(record[0]),
			Type: WaterPointTypeLabel(record[1]),
			Lat:  lat,
			Lon:  lon,
		})
	}

	return points
}

func fetchSnapshot(ctx context.Context, client *resty.Client, snapshotURL string) ([]byte, error) {
	if snapshotURL == "" {
		return nil, fmt.Errorf("no snapshot URL configured")
	}

	resp, err := client.R().SetContext(ctx).Get(snapshotURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("snapshot returned status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}
