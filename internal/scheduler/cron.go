package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher restarts the home subscriptions
type Refresher interface {
	Refresh() int
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	logger    *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(refresher Refresher, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		logger:    logger,
	}
}

// Start registers the refresh job on spec and starts the scheduler
func (s *Scheduler) Start(spec string) error {
	s.logger.WithField("schedule", spec).Info("Starting scheduler")

	if _, err := s.cron.AddFunc(spec, s.runRefresh); err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to return
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runRefresh executes the refresh job
func (s *Scheduler) runRefresh() {
	started := s.refresher.Refresh()
	if started == 0 {
		s.logger.Debug("Refresh skipped, subscriptions still running")
		return
	}
	s.logger.WithField("started", started).Info("Scheduled refresh started")
}
