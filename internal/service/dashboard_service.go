package service

import (
	"context"
	"time"

	"github.com/easytrack/backend/internal/domain"
	"github.com/easytrack/backend/pkg/utils"
)

// DashboardService derives the analytics view from the current map state
type DashboardService struct {
	maps *MapService
	now  func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(maps *MapService) *DashboardService {
	return &DashboardService{
		maps: maps,
		now:  time.Now,
	}
}

// GetDashboardData returns the current map snapshot with its KPIs
func (s *DashboardService) GetDashboardData(ctx context.Context) (domain.DashboardData, error) {
	snap, err := s.maps.Current(ctx)
	if err != nil {
		return domain.DashboardData{}, err
	}

	return domain.DashboardData{
		Map:       snap,
		KPIs:      ComputeKPIs(snap.Points),
		Timestamp: s.now(),
	}, nil
}

// ComputeKPIs counts sites by status and category
func ComputeKPIs(points []domain.MapPoint) domain.KPIs {
	kpis := domain.KPIs{
		TotalSites: len(points),
		ByCategory: newCategoryCounts(),
	}

	for _, p := range points {
		kpis.ByCategory[p.Category]++
		if p.Status == domain.StatusAlert {
			kpis.AlertSites++
		} else {
			kpis.ActiveSites++
		}
	}

	kpis.AlertRate = utils.RoundTo(utils.Percent(kpis.AlertSites, kpis.TotalSites), 1)
	return kpis
}
