package service

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/easytrack/backend/internal/domain"
	"github.com/easytrack/backend/internal/mapdata"
)

// RecentReportLimit is how many of the latest records a report lists
const RecentReportLimit = 5

// InsightsService builds the alerts feed and the reports breakdown
type InsightsService struct {
	maps *MapService
	repo FieldDataRepository
	now  func() time.Time
}

// NewInsightsService creates a new insights service
func NewInsightsService(maps *MapService, repo FieldDataRepository) *InsightsService {
	return &InsightsService{
		maps: maps,
		repo: repo,
		now:  time.Now,
	}
}

// GetAlerts returns the alert markers of the published map
func (s *InsightsService) GetAlerts(ctx context.Context) (domain.AlertFeed, error) {
	snap, err := s.maps.Current(ctx)
	if err != nil {
		return domain.AlertFeed{}, err
	}

	alerts := BuildAlerts(snap.Points)
	return domain.AlertFeed{
		Alerts:      alerts,
		Count:       len(alerts),
		Fallback:    snap.Fallback,
		GeneratedAt: snap.GeneratedAt,
	}, nil
}

// GetReport counts the stored records by category and month
func (s *InsightsService) GetReport(ctx context.Context) (domain.Report, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return domain.Report{}, errors.Wrap(err, "service: failed to load records for report")
	}

	report := BuildReport(records, RecentReportLimit)
	report.GeneratedAt = s.now()
	return report, nil
}

// BuildAlerts lists the points in alert state. Flagged sites come first,
// then the longest-silent sites.
func BuildAlerts(points []domain.MapPoint) []domain.SiteAlert {
	alerts := make([]domain.SiteAlert, 0)
	for _, p := range points {
		if p.Status != domain.StatusAlert {
			continue
		}

		var reasons []domain.AlertReason
		if p.Flagged {
			reasons = append(reasons, domain.AlertReasonFlagged)
		}
		if p.Stale {
			reasons = append(reasons, domain.AlertReasonStale)
		}

		alerts = append(alerts, domain.SiteAlert{
			SiteID:     p.ID,
			Name:       p.Name,
			Category:   p.Category,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
			Reasons:    reasons,
			LastUpdate: p.LastUpdate,
			SourceIDs:  append([]string(nil), p.SourceIDs...),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		fi, fj := isFlagged(alerts[i]), isFlagged(alerts[j])
		if fi != fj {
			return fi
		}
		return alerts[i].LastUpdate.Before(alerts[j].LastUpdate)
	})

	return alerts
}

func isFlagged(a domain.SiteAlert) bool {
	return len(a.Reasons) > 0 && a.Reasons[0] == domain.AlertReasonFlagged
}

// BuildReport counts records per category and per UTC month of UpdatedAt.
// Undated records count toward the category totals only. Recent holds up to
// recentLimit dated records, newest first.
func BuildReport(records []domain.RawRecord, recentLimit int) domain.Report {
	report := domain.Report{
		TotalRecords: len(records),
		ByCategory:   newCategoryCounts(),
		Monthly:      make([]domain.MonthlyCount, 0),
		Recent:       make([]domain.RawRecord, 0),
	}

	months := make(map[string]*domain.MonthlyCount)
	var dated []domain.RawRecord

	for _, rec := range records {
		category := mapdata.ParseCategory(rec.Category)
		report.ByCategory[category]++

		if rec.UpdatedAt == nil {
			report.Undated++
			continue
		}
		dated = append(dated, rec)

		key := rec.UpdatedAt.UTC().Format("2006-01")
		month, ok := months[key]
		if !ok {
			month = &domain.MonthlyCount{Month: key, ByCategory: newCategoryCounts()}
			months[key] = month
		}
		month.Total++
		month.ByCategory[category]++
	}

	for _, month := range months {
		report.Monthly = append(report.Monthly, *month)
	}
	sort.Slice(report.Monthly, func(i, j int) bool {
		return report.Monthly[i].Month < report.Monthly[j].Month
	})

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].UpdatedAt.After(*dated[j].UpdatedAt)
	})
	if recentLimit < 0 {
		recentLimit = 0
	}
	if len(dated) > recentLimit {
		dated = dated[:recentLimit]
	}
	report.Recent = append(report.Recent, dated...)

	return report
}

func newCategoryCounts() map[domain.Category]int {
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, c := range domain.Categories {
		counts[c] = 0
	}
	return counts
}
