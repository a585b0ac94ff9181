package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/go-resty/resty/v2"
)

// OpenWeatherProvider queries the OpenWeather current-conditions API.
type OpenWeatherProvider struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

var _ WeatherProvider = (*OpenWeatherProvider)(nil)

type openWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
}

// NewOpenWeatherProvider creates an OpenWeather client.
func NewOpenWeatherProvider(apiKey string, timeout time.Duration) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		client:  resty.New().SetTimeout(timeout),
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		apiKey:  apiKey,
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (p *OpenWeatherProvider) SetBaseURL(u string) {
	p.baseURL = u
}

// CurrentWeather returns current conditions at the coordinate, metric units.
func (p *OpenWeatherProvider) CurrentWeather(ctx context.Context, coord models.Coordinate) (*models.Weather, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   fmt.Sprintf("%f", coord.Lat),
			"lon":   fmt.Sprintf("%f", coord.Lon),
			"units": "metric",
			"appid": p.apiKey,
		}).
		Get(p.baseURL)

	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode())
	}

	var raw openWeatherResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	return &models.Weather{
		TempC:        raw.Main.Temp,
		WindSpeedKmh: raw.Wind.Speed,
		WindDeg:      raw.Wind.Deg,
		Humidity:     raw.Main.Humidity,
	}, nil
}
