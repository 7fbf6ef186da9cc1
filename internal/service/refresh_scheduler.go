package service

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/easytrack/backend/internal/domain"
)

// Refresher is anything that can re-run the map pipeline
type Refresher interface {
	Refresh(ctx context.Context) (domain.MapSnapshot, error)
}

// RefreshScheduler triggers map refreshes on a cron schedule
type RefreshScheduler struct {
	cron      *cron.Cron
	refresher Refresher
}

// NewRefreshScheduler validates schedule (standard cron or a descriptor such as
// "@every 5m") and registers the refresh job. Call Start to begin.
func NewRefreshScheduler(refresher Refresher, schedule string) (*RefreshScheduler, error) {
	s := &RefreshScheduler{
		cron:      cron.New(),
		refresher: refresher,
	}

	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, errors.Wrapf(err, "service: invalid refresh schedule %q", schedule)
	}

	return s, nil
}

// RunOnce performs one scheduled refresh
func (s *RefreshScheduler) RunOnce() {
	snap, err := s.refresher.Refresh(context.Background())
	if err != nil {
		if errors.Is(err, ErrStaleRefresh) {
			log.Printf("Scheduled refresh superseded: %v", err)
			return
		}
		log.Printf("Scheduled refresh failed: %v", err)
		return
	}
	log.Printf("Scheduled refresh %d: %d markers (fallback=%t)", snap.RequestID, len(snap.Points), snap.Fallback)
}

// Start begins running the schedule in the background
func (s *RefreshScheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
}
