package mapdata

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/easytrack/backend/internal/domain"
)

// Aggregator runs the location pipeline against a record source:
// fetch, normalize, deduplicate, substitute fallback when empty, classify.
type Aggregator struct {
	source    domain.RecordSource
	threshold time.Duration
	now       func() time.Time
}

// NewAggregator creates an aggregator. A zero threshold selects the default.
func NewAggregator(source domain.RecordSource, threshold time.Duration) *Aggregator {
	if threshold == 0 {
		threshold = DefaultStalenessThreshold
	}
	return &Aggregator{
		source:    source,
		threshold: threshold,
		now:       time.Now,
	}
}

// SetClock overrides the time source (useful for testing)
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Threshold returns the staleness threshold in effect
func (a *Aggregator) Threshold() time.Duration {
	return a.threshold
}

// Aggregate performs one pass. Fetch failures, including a fetch that runs
// past the deadline of ctx, degrade to the fallback set. The only errors
// returned are cancellation of ctx and contract violations from the classifier.
func (a *Aggregator) Aggregate(ctx context.Context) (domain.MapSnapshot, error) {
	var records []domain.RawRecord
	if a.source != nil {
		fetched, err := a.source.GetAll(ctx)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return domain.MapSnapshot{}, errors.Wrap(ctx.Err(), "mapdata: aggregation aborted")
			}
			log.Printf("Record source unavailable, using fallback markers: %v", err)
		} else {
			records = fetched
		}
	}

	now := a.now()
	return a.build(records, now)
}

func (a *Aggregator) build(records []domain.RawRecord, now time.Time) (domain.MapSnapshot, error) {
	points := Deduplicate(Normalize(records, now))

	fallback := len(points) == 0
	if fallback {
		points = Fallback(now)
	}

	classified, err := Classify(points, now, a.threshold)
	if err != nil {
		return domain.MapSnapshot{}, err
	}

	return domain.MapSnapshot{
		Points:      classified,
		Fallback:    fallback,
		GeneratedAt: now,
	}, nil
}
