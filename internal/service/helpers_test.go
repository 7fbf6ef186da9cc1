package service

import (
	"context"

	"github.com/easytrack/backend/internal/domain"
)

// mockAggregator is a mock MapAggregator for testing
type mockAggregator struct {
	AggregateFn func(ctx context.Context) (domain.MapSnapshot, error)
}

func (m *mockAggregator) Aggregate(ctx context.Context) (domain.MapSnapshot, error) {
	if m.AggregateFn != nil {
		return m.AggregateFn(ctx)
	}
	return domain.MapSnapshot{}, nil
}

// mockRepository is a mock FieldDataRepository for testing
type mockRepository struct {
	GetAllFn func(ctx context.Context) ([]domain.RawRecord, error)
	CreateFn func(ctx context.Context, rec domain.RawRecord) error
	HealthFn func(ctx context.Context) error
}

func (m *mockRepository) GetAll(ctx context.Context) ([]domain.RawRecord, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	return nil, nil
}

func (m *mockRepository) Create(ctx context.Context, rec domain.RawRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, rec)
	}
	return nil
}

func (m *mockRepository) Health(ctx context.Context) error {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return nil
}

func snapshotNamed(name string) domain.MapSnapshot {
	return domain.MapSnapshot{Points: []domain.MapPoint{{Name: name}}}
}
