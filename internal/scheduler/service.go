package scheduler

import (
	"context"
	"fmt"

	"github.com/bvofrades/incident-bot/internal/config"
	"github.com/bvofrades/incident-bot/internal/pipeline"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Service schedules the recurring poll cycle.
type Service struct {
	config   *config.Config
	pipeline *pipeline.Service
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, pipelineService *pipeline.Service) *Service {
	return &Service{
		config:   cfg,
		pipeline: pipelineService,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start begins the polling schedule and runs one cycle immediately so a
// fresh deployment does not wait a full interval for its first poll.
func (s *Service) Start() error {
	spec := fmt.Sprintf("@every %s", s.config.PollInterval)

	_, err := s.cron.AddFunc(spec, func() {
		if err := s.pipeline.RunCycle(context.Background()); err != nil {
			logrus.Errorf("Scheduled poll cycle failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started, polling every %s", s.config.PollInterval)

	go func() {
		if err := s.pipeline.RunCycle(context.Background()); err != nil {
			logrus.Errorf("Initial poll cycle failed: %v", err)
		}
	}()

	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
