package enrichment

import (
	"context"
	"fmt"
	"testing"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/bvofrades/incident-bot/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockWeatherProvider is a mock implementation of the weather provider
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) CurrentWeather(ctx context.Context, coord models.Coordinate) (*models.Weather, error) {
	args := m.Called(ctx, coord)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Weather), args.Error(1)
}

type stubWaterPointSource struct {
	points []models.WaterPoint
}

func (s *stubWaterPointSource) Load(ctx context.Context) []models.WaterPoint {
	return s.points
}

type stubRenderer struct {
	url string
}

func (s *stubRenderer) RenderURL(incident, waterPoint models.Coordinate, user *models.Coordinate) string {
	return s.url
}

var testIncident = models.Incident{
	ID:         "1",
	Date:       "2024-01-01",
	Hour:       "10:00",
	Natureza:   "Incêndio Rural",
	Concelho:   "Aveiro",
	Localidade: "Glória",
}

func TestAssembler_Assemble_FullEnrichment(t *testing.T) {
	weather := &MockWeatherProvider{}
	weather.On("CurrentWeather", mock.Anything, mock.Anything).
		Return(&models.Weather{TempC: 21.4, WindSpeedKmh: 12.5, WindDeg: 45, Humidity: 63}, nil)

	// Roughly 2.3 km north of the incident coordinate.
	waterPoints := &stubWaterPointSource{points: []models.WaterPoint{
		{Name: "Tanque da Glória", Type: "Depósito de água", Lat: 40.6607, Lon: -8.65},
	}}
	renderer := &stubRenderer{url: "https://api.mapbox.com/map.png"}

	assembler := NewAssembler(weather, waterPoints, renderer, "https://bvofrades.pt/ocorrencias/", observability.NewMetricsForTesting())

	coord := &models.Coordinate{Lat: 40.64, Lon: -8.65}
	payload := assembler.Assemble(context.Background(), testIncident, coord, nil)

	assert.Contains(t, payload.Text, "Incêndio Rural")
	assert.Contains(t, payload.Text, "Temperatura:* 21.4°C")
	assert.Contains(t, payload.Text, "12.5 km/h (NE)")
	assert.Contains(t, payload.Text, "Humidade:* 63%")
	assert.Contains(t, payload.Text, "Tanque da Glória (Depósito de água) a 2.30 km")
	assert.Contains(t, payload.Text, "openstreetmap.org")
	assert.Contains(t, payload.Text, "Dados: Prociv / fogos.pt")
	assert.Equal(t, "https://api.mapbox.com/map.png", payload.PhotoURL)
	assert.Equal(t, "https://bvofrades.pt/ocorrencias/?id=1", payload.ActionURL)
	assert.True(t, payload.HasPhoto())
}

func TestAssembler_Assemble_Unresolved(t *testing.T) {
	weather := &MockWeatherProvider{}
	waterPoints := &stubWaterPointSource{points: []models.WaterPoint{{Name: "Tanque", Lat: 40, Lon: -8}}}
	renderer := &stubRenderer{url: "https://api.mapbox.com/map.png"}

	assembler := NewAssembler(weather, waterPoints, renderer, "https://bvofrades.pt/ocorrencias/", observability.NewMetricsForTesting())

	payload := assembler.Assemble(context.Background(), testIncident, nil, nil)

	assert.Contains(t, payload.Text, "*Meteo:* Sem coordenadas disponíveis")
	assert.Contains(t, payload.Text, "*Ponto de água:* Sem coordenadas disponíveis")
	assert.Empty(t, payload.PhotoURL)
	assert.Contains(t, payload.Text, "Dados: Prociv / fogos.pt")
	assert.Equal(t, "https://bvofrades.pt/ocorrencias/?id=1", payload.ActionURL)
	weather.AssertNotCalled(t, "CurrentWeather", mock.Anything, mock.Anything)
}

func TestAssembler_Assemble_WeatherFailure(t *testing.T) {
	weather := &MockWeatherProvider{}
	weather.On("CurrentWeather", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("weather service returned status 503"))

	assembler := NewAssembler(weather, &stubWaterPointSource{}, nil, "https://bvofrades.pt/ocorrencias/", observability.NewMetricsForTesting())

	coord := &models.Coordinate{Lat: 40.64, Lon: -8.65}
	payload := assembler.Assemble(context.Background(), testIncident, coord, nil)

	assert.Contains(t, payload.Text, "*Meteo:* Dados indisponíveis")
}

func TestAssembler_Assemble_EmptyWaterPointSet(t *testing.T) {
	weather := &MockWeatherProvider{}
	weather.On("CurrentWeather", mock.Anything, mock.Anything).
		Return(&models.Weather{TempC: 18, WindDeg: 0, Humidity: 70}, nil)

	renderer := &stubRenderer{url: "https://api.mapbox.com/map.png"}
	assembler := NewAssembler(weather, &stubWaterPointSource{}, renderer, "https://bvofrades.pt/ocorrencias/", observability.NewMetricsForTesting())

	coord := &models.Coordinate{Lat: 40.64, Lon: -8.65}
	payload := assembler.Assemble(context.Background(), testIncident, coord, nil)

	assert.Contains(t, payload.Text, "*Ponto de água:* Nenhum encontrado")
	assert.Empty(t, payload.PhotoURL, "no nearest point suppresses the map image")
}

func TestAssembler_Assemble_WaterPointsDisabled(t *testing.T) {
	weather := &MockWeatherProvider{}
	weather.On("CurrentWeather", mock.Anything, mock.Anything).
		Return(&models.Weather{TempC: 18, Humidity: 70}, nil)

	assembler := NewAssembler(weather, nil, nil, "https://bvofrades.pt/ocorrencias/", observability.NewMetricsForTesting())

	coord := &models.Coordinate{Lat: 40.64, Lon: -8.65}
	payload := assembler.Assemble(context.Background(), testIncident, coord, nil)

	assert.NotContains(t, payload.Text, "Ponto de água")
	assert.Empty(t, payload.PhotoURL)
}
