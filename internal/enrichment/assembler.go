// Package enrichment assembles the notification payload for a new
// incident: weather conditions, nearest water point, and an optional
// static map image.
package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/bvofrades/incident-bot/internal/geo"
	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/bvofrades/incident-bot/internal/observability"
	"github.com/bvofrades/incident-bot/internal/sources"
	"github.com/sirupsen/logrus"
)

const (
	weatherUnavailable      = "⚠️ *Meteo:* Dados indisponíveis"
	weatherNoCoordinates    = "⚠️ *Meteo:* Sem coordenadas disponíveis"
	waterPointNoCoordinates = "⚠️ *Ponto de água:* Sem coordenadas disponíveis"
	waterPointNoneFound     = "⚠️ *Ponto de água:* Nenhum encontrado"

	attributionFooter = "📡 _Dados: Prociv / fogos.pt_\n💬 Esta mensagem é automática | @bvofrades"
	actionLabel       = "📋 Atualizações"
)

// Assembler builds NotificationPayloads from incidents and their resolved
// coordinates. Every collaborator failure degrades to a placeholder
// section; assembly itself never fails.
type Assembler struct {
	weather     sources.WeatherProvider
	waterPoints sources.WaterPointSource
	renderer    sources.MapRenderer
	metrics     *observability.Metrics

	statusPageURL string
}

// NewAssembler creates an assembler. waterPoints and renderer may be nil
// when the corresponding enrichment is disabled.
func NewAssembler(weather sources.WeatherProvider, waterPoints sources.WaterPointSource, renderer sources.MapRenderer, statusPageURL string, metrics *observability.Metrics) *Assembler {
	return &Assembler{
		weather:       weather,
		waterPoints:   waterPoints,
		renderer:      renderer,
		metrics:       metrics,
		statusPageURL: statusPageURL,
	}
}

// Assemble builds the notification for one incident. coord and user may be
// nil; enrichment then degrades into explicit placeholders and the payload
// stays text-only.
func (a *Assembler) Assemble(ctx context.Context, incident models.Incident, coord, user *models.Coordinate) models.NotificationPayload {
	weatherBlock := a.weatherBlock(ctx, coord)
	waterBlock, nearest := a.waterPointBlock(ctx, coord)

	var b strings.Builder
	b.WriteString("*⚠️ Nova ocorrência!*\n\n")
	fmt.Fprintf(&b, "🕒 *Data:* %s às %s\n", incident.Date, incident.Hour)
	fmt.Fprintf(&b, "🚨 *Tipo:* %s\n", incident.Natureza)
	fmt.Fprintf(&b, "📍 *Local:* %s / %s\n", incident.Concelho, incident.Localidade)
	b.WriteString(weatherBlock)
	if waterBlock != "" {
		b.WriteString("\n")
		b.WriteString(waterBlock)
	}
	b.WriteString("\n\n")
	b.WriteString(attributionFooter)

	payload := models.NotificationPayload{
		IncidentID: incident.ID,
		Text:       b.String(),
		ActionText: actionLabel,
		ActionURL:  fmt.Sprintf("%s?id=%s", a.statusPageURL, incident.ID),
	}

	// The map image needs both a resolved origin and a nearest point.
	if coord != nil && nearest != nil && a.renderer != nil {
		payload.PhotoURL = a.renderer.RenderURL(*coord, nearest.Coordinate(), user)
	}

	return payload
}

func (a *Assembler) weatherBlock(ctx context.Context, coord *models.Coordinate) string {
	if coord == nil {
		return weatherNoCoordinates
	}

	weather, err := a.weather.CurrentWeather(ctx, *coord)
	if err != nil {
		logrus.Warnf("Weather lookup failed: %v", err)
		a.metrics.EnrichmentDegraded.WithLabelValues("weather").Inc()
		return weatherUnavailable
	}

	return fmt.Sprintf("🌡️ *Temperatura:* %.1f°C\n💨 *Vento:* %.1f km/h (%s)\n💧 *Humidade:* %d%%",
		weather.TempC, weather.WindSpeedKmh, geo.Compass(weather.WindDeg), weather.Humidity)
}

// waterPointBlock renders the nearest water point section and returns the
// chosen point so Assemble can decide whether a map image applies.
func (a *Assembler) waterPointBlock(ctx context.Context, coord *models.Coordinate) (string, *models.NearestWaterPoint) {
	if a.waterPoints == nil {
		return "", nil
	}

	if coord == nil {
		return waterPointNoCoordinates, nil
	}

	candidates := a.waterPoints.Load(ctx)
	nearest := geo.Nearest(*coord, candidates)
	if nearest == nil {
		a.metrics.EnrichmentDegraded.WithLabelValues("waterpoints").Inc()
		return waterPointNoneFound, nil
	}

	block := fmt.Sprintf("🚒 *Ponto de água:* %s (%s) a %.2f km\n🗺️ [Ver no mapa](%s)",
		nearest.Name, nearest.Type, nearest.DistanceKm, osmLink(nearest.Coordinate()))

	return block, nearest
}

func osmLink(c models.Coordinate) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=16/%.5f/%.5f",
		c.Lat, c.Lon, c.Lat, c.Lon)
}
