package mapdata

import (
	"time"

	"github.com/pkg/errors"

	"github.com/easytrack/backend/internal/domain"
)

// DefaultStalenessThreshold is how long a site may go without an update
// before it is shown as an alert
const DefaultStalenessThreshold = 24 * time.Hour

// Classify returns a copy of points with Status derived from the age of each
// point relative to now. A point older than threshold, or one flagged by any
// contributing record, is an alert.
func Classify(points []domain.MapPoint, now time.Time, threshold time.Duration) ([]domain.MapPoint, error) {
	if threshold < 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "negative staleness threshold %s", threshold)
	}

	out := make([]domain.MapPoint, len(points))
	for i, p := range points {
		p.SourceIDs = append([]string(nil), p.SourceIDs...)
		p.Stale = now.Sub(p.LastUpdate) > threshold
		p.Status = statusOf(p)
		out[i] = p
	}

	return out, nil
}

func statusOf(p domain.MapPoint) domain.Status {
	if p.Flagged || p.Stale {
		return domain.StatusAlert
	}
	return domain.StatusActive
}
