package domain

import "time"

// Status is the derived health of a map marker
type Status string

const (
	StatusActive Status = "active"
	StatusAlert  Status = "alert"
)

// MapPoint is a normalized, render-ready site marker on the percentage canvas
type MapPoint struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	Category   Category  `json:"type"`
	Status     Status    `json:"status"`
	LastUpdate time.Time `json:"lastUpdate"`
	SourceIDs  []string  `json:"sourceIds"`

	// Flagged is set when any contributing record carried an explicit alert flag
	Flagged bool `json:"flagged,omitempty"`
	// Stale is set by classification when LastUpdate is older than the threshold
	Stale bool `json:"stale,omitempty"`
	// Undated marks a LastUpdate that was stamped at normalization time
	// because no contributing record had a timestamp
	Undated bool `json:"-"`
}

// MapSnapshot is the output of one aggregation pass
type MapSnapshot struct {
	RequestID   uint64     `json:"request_id"`
	Points      []MapPoint `json:"points"`
	Fallback    bool       `json:"fallback"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// MapResponse wraps a map snapshot with metadata
type MapResponse struct {
	Data    MapSnapshot `json:"data"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}
