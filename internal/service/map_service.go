package service

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/easytrack/backend/internal/domain"
)

// ErrStaleRefresh is returned by Refresh when a newer refresh was issued
// before this one completed. Its result is discarded.
var ErrStaleRefresh = errors.New("service: refresh superseded by a newer request")

// MapAggregator runs one aggregation pass
type MapAggregator interface {
	Aggregate(ctx context.Context) (domain.MapSnapshot, error)
}

// MapService owns the single display slot for map markers.
// Each refresh is tagged with a monotonic request id; only the latest
// issued refresh may publish, and issuing a refresh cancels the one in flight.
type MapService struct {
	aggregator MapAggregator
	timeout    time.Duration

	mu        sync.Mutex
	latest    uint64
	cancel    context.CancelFunc
	current   *domain.MapSnapshot
	published chan struct{} // closed on first publish

	initial singleflight.Group
}

// NewMapService creates a new map service
func NewMapService(aggregator MapAggregator, timeout time.Duration) *MapService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MapService{
		aggregator: aggregator,
		timeout:    timeout,
		published:  make(chan struct{}),
	}
}

// Refresh runs the pipeline and publishes the result if no newer refresh
// was issued in the meantime
func (s *MapService) Refresh(ctx context.Context) (domain.MapSnapshot, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.latest++
	id := s.latest
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	snap, err := s.aggregator.Aggregate(runCtx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.latest {
		return domain.MapSnapshot{}, errors.Wrapf(ErrStaleRefresh, "request %d, latest %d", id, s.latest)
	}
	s.cancel = nil

	if err != nil {
		return domain.MapSnapshot{}, errors.Wrapf(err, "service: refresh %d failed", id)
	}

	snap.RequestID = id
	if s.current == nil {
		close(s.published)
	}
	s.current = &snap

	return snap, nil
}

// Current returns the published snapshot, loading it first if nothing has
// been published yet
func (s *MapService) Current(ctx context.Context) (domain.MapSnapshot, error) {
	if snap, ok := s.snapshot(); ok {
		return snap, nil
	}

	v, err, _ := s.initial.Do("initial", func() (interface{}, error) {
		return s.Refresh(ctx)
	})
	if err == nil {
		return v.(domain.MapSnapshot), nil
	}
	if !errors.Is(err, ErrStaleRefresh) {
		return domain.MapSnapshot{}, err
	}

	// A newer refresh took over; wait for it to publish
	select {
	case <-s.published:
		snap, _ := s.snapshot()
		return snap, nil
	case <-ctx.Done():
		return domain.MapSnapshot{}, ctx.Err()
	}
}

func (s *MapService) snapshot() (domain.MapSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.MapSnapshot{}, false
	}
	return *s.current, true
}
