package domain

import (
	"fmt"
	"time"
)

// Category is the closed set of monitoring domains a field site belongs to
type Category string

const (
	CategoryWater       Category = "water"
	CategoryHealth      Category = "health"
	CategoryClimate     Category = "climate"
	CategoryEnvironment Category = "environment"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWater,
	CategoryHealth,
	CategoryClimate,
	CategoryEnvironment,
	CategoryOther,
}

// RawRecord is a field-data entry as supplied by a record source.
// Coordinates and timestamp are optional; incomplete submissions are routine.
type RawRecord struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Alert       bool       `json:"alert,omitempty"`
}

// NewFieldDataRequest is the body of a data-entry submission
type NewFieldDataRequest struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Alert       bool     `json:"alert,omitempty"`
}

// FetchError is returned by record sources when records cannot be retrieved
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: fetch failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
