package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/easytrack/backend/internal/domain"
)

// MockRepository implements domain.FieldDataRepository in memory for testing/demo mode
type MockRepository struct {
	mu      sync.RWMutex
	records []domain.RawRecord
}

// NewMockRepository creates a new mock repository seeded with records
func NewMockRepository(seed ...domain.RawRecord) *MockRepository {
	return &MockRepository{records: append([]domain.RawRecord(nil), seed...)}
}

// NewDemoRepository creates a mock repository with sample field submissions.
// Timestamps are relative to now so the demo map shows both active and stale sites.
func NewDemoRepository(now time.Time) *MockRepository {
	coord := func(v float64) *float64 { return &v }
	at := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	return NewMockRepository(
		domain.RawRecord{ID: "demo-1", Title: "Site A - Water Station", Category: "Water", Latitude: coord(20), Longitude: coord(30), UpdatedAt: at(2 * time.Hour)},
		domain.RawRecord{ID: "demo-2", Title: "Health Clinic - North", Category: "health", Latitude: coord(40), Longitude: coord(45), UpdatedAt: at(5 * time.Hour)},
		domain.RawRecord{ID: "demo-3", Title: "Climate Station - Coastal", Category: "climate", Latitude: coord(60), Longitude: coord(60), UpdatedAt: at(36 * time.Hour)},
		domain.RawRecord{ID: "demo-4", Title: "Site B - Environmental", Category: "Environment", Latitude: coord(80), Longitude: coord(75), UpdatedAt: at(30 * time.Minute)},
		domain.RawRecord{ID: "demo-5", Title: "Site A - Follow-up Sample", Category: "water", Latitude: coord(20.3), Longitude: coord(29.8), UpdatedAt: at(time.Hour)},
		domain.RawRecord{ID: "demo-6", Title: "Household Survey", Category: "health"},
	)
}

// GetAll returns a copy of the stored records
func (r *MockRepository) GetAll(ctx context.Context) ([]domain.RawRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.RawRecord(nil), r.records...), nil
}

// Create appends a record
func (r *MockRepository) Create(ctx context.Context, rec domain.RawRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	return nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
