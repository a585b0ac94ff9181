// Package pipeline orchestrates one poll-and-notify cycle: fetch the
// incident feed, drop already-seen incidents, resolve coordinates, enrich,
// dispatch, and mark.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/bvofrades/incident-bot/internal/config"
	"github.com/bvofrades/incident-bot/internal/dedup"
	"github.com/bvofrades/incident-bot/internal/enrichment"
	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/bvofrades/incident-bot/internal/notifications"
	"github.com/bvofrades/incident-bot/internal/observability"
	"github.com/bvofrades/incident-bot/internal/sources"
	"github.com/sirupsen/logrus"
)

// Service runs the incident pipeline. A mutex serializes cycles because
// the cron schedule and the manual /trigger endpoint can fire concurrently.
type Service struct {
	config    *config.Config
	feed      sources.Feed
	resolver  *Resolver
	assembler *enrichment.Assembler
	tracker   dedup.Tracker
	notifier  notifications.Notifier
	metrics   *observability.Metrics

	mu sync.Mutex
}

// NewService creates the pipeline service.
func NewService(cfg *config.Config, feed sources.Feed, resolver *Resolver, assembler *enrichment.Assembler, tracker dedup.Tracker, notifier notifications.Notifier, metrics *observability.Metrics) *Service {
	return &Service{
		config:    cfg,
		feed:      feed,
		resolver:  resolver,
		assembler: assembler,
		tracker:   tracker,
		notifier:  notifier,
		metrics:   metrics,
	}
}

// RunCycle performs one poll-and-notify pass. A feed failure means zero
// incidents this cycle; nothing in here is fatal to the process.
func (s *Service) RunCycle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	incidents, err := s.feed.FetchIncidents(ctx)
	if err != nil {
		logrus.Errorf("Incident feed unavailable, skipping cycle: %v", err)
		s.metrics.FeedFailures.Inc()
		return err
	}

	s.metrics.IncidentsFetched.Add(float64(len(incidents)))
	logrus.Infof("Received %d incidents from feed", len(incidents))

	// Ids already handled in this batch. The tracker alone is not enough:
	// a failed delivery may stay unmarked for a cross-cycle retry, but a
	// feed that repeats an id within one response must still dispatch it
	// at most once per cycle.
	handled := make(map[string]bool, len(incidents))

	for _, incident := range incidents {
		if incident.ID == "" {
			logrus.Warn("Skipping incident without id")
			continue
		}

		if handled[incident.ID] || s.tracker.Seen(incident.ID) {
			s.metrics.IncidentsDuplicate.Inc()
			continue
		}
		handled[incident.ID] = true

		s.processIncident(ctx, incident)
	}

	s.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	s.metrics.LastCycleTimestamp.SetToCurrentTime()
	logrus.Infof("Poll cycle completed in %v", time.Since(start))
	return nil
}

func (s *Service) processIncident(ctx context.Context, incident models.Incident) {
	logrus.Infof("New incident %s: %s (%s / %s)", incident.ID, incident.Natureza, incident.Concelho, incident.Localidade)

	coord := s.resolver.Resolve(ctx, incident)
	if coord == nil {
		s.metrics.EnrichmentDegraded.WithLabelValues("coordinates").Inc()
	}

	payload := s.assembler.Assemble(ctx, incident, coord, nil)

	result := s.notifier.Send(payload)
	if result.OK {
		s.metrics.IncidentsNotified.Inc()
		logrus.Infof("Notified incident %s (photo=%v)", incident.ID, payload.HasPhoto())
	} else {
		s.metrics.DispatchFailures.Inc()
		logrus.Errorf("Delivery failed for incident %s (status %d): %s", incident.ID, result.StatusCode, result.Description)

		if !s.config.MarkFailedDeliveries {
			// Leave the incident unmarked so a later cycle retries it.
			return
		}
	}

	s.tracker.Mark(incident.ID)
}
