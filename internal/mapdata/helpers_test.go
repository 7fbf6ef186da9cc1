package mapdata

import (
	"context"
	"time"

	"github.com/easytrack/backend/internal/domain"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

func record(id, title, category string, lat, lng float64, updated time.Time) domain.RawRecord {
	return domain.RawRecord{
		ID:        id,
		Title:     title,
		Category:  category,
		Latitude:  ptr(lat),
		Longitude: ptr(lng),
		UpdatedAt: ptr(updated),
	}
}

// mockSource is a mock record source for testing
type mockSource struct {
	GetAllFn func(ctx context.Context) ([]domain.RawRecord, error)
}

func (m *mockSource) GetAll(ctx context.Context) ([]domain.RawRecord, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	return nil, nil
}
