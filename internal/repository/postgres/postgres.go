package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/easytrack/backend/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS field_data (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		category    TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		latitude    DOUBLE PRECISION,
		longitude   DOUBLE PRECISION,
		alert       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ
	)
`

// PostgresRepository implements domain.FieldDataRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the field_data table if it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}
	return nil
}

// listQuery returns every record, oldest submission first. No row cap.
const listQuery = `
	SELECT id, title, category, description, latitude, longitude, updated_at, alert
	FROM field_data
	ORDER BY created_at ASC, id ASC
`

// GetAll retrieves every field-data record in submission order.
// Query failures are reported as *domain.FetchError.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]domain.RawRecord, error) {
	rows, err := r.pool.Query(ctx, listQuery)
	if err != nil {
		return nil, &domain.FetchError{Source: "postgres", Err: err}
	}
	defer rows.Close()

	var results []domain.RawRecord
	for rows.Next() {
		var rec domain.RawRecord
		err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Category, &rec.Description,
			&rec.Latitude, &rec.Longitude, &rec.UpdatedAt, &rec.Alert,
		)
		if err != nil {
			return nil, &domain.FetchError{Source: "postgres", Err: fmt.Errorf("scan field_data row: %w", err)}
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FetchError{Source: "postgres", Err: err}
	}

	return results, nil
}

// Create persists a new field-data record to PostgreSQL
func (r *PostgresRepository) Create(ctx context.Context, rec domain.RawRecord) error {
	query := `
		INSERT INTO field_data (
			id, title, category, description, latitude, longitude, alert, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.Title, rec.Category, rec.Description,
		rec.Latitude, rec.Longitude, rec.Alert, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save field data: %w", err)
	}

	return nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
