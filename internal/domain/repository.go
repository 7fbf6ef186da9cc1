package domain

import "context"

// RecordSource supplies raw field-data records to the aggregation pipeline.
// Implementations return *FetchError when records cannot be retrieved.
type RecordSource interface {
	GetAll(ctx context.Context) ([]RawRecord, error)
}

// FieldDataRepository defines the interface for field-data persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type FieldDataRepository interface {
	RecordSource

	// Create persists a new field-data record
	Create(ctx context.Context, record RawRecord) error

	// Health checks backend connectivity
	Health(ctx context.Context) error
}
