package domain

import "time"

// AlertReason explains why a site is on the alerts feed
type AlertReason string

const (
	AlertReasonFlagged AlertReason = "flagged"
	AlertReasonStale   AlertReason = "stale"
)

// SiteAlert is one entry of the alerts feed
type SiteAlert struct {
	SiteID     string        `json:"site_id"`
	Name       string        `json:"name"`
	Category   Category      `json:"category"`
	Latitude   float64       `json:"lat"`
	Longitude  float64       `json:"lng"`
	Reasons    []AlertReason `json:"reasons"`
	LastUpdate time.Time     `json:"last_update"`
	SourceIDs  []string      `json:"source_ids"`
}

// AlertFeed lists the sites currently in alert state
type AlertFeed struct {
	Alerts      []SiteAlert `json:"alerts"`
	Count       int         `json:"count"`
	Fallback    bool        `json:"fallback"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// MonthlyCount is the number of records last updated in one calendar month (UTC)
type MonthlyCount struct {
	Month      string           `json:"month"` // YYYY-MM
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"by_category"`
}

// Report is the record breakdown behind the reports view
type Report struct {
	TotalRecords int              `json:"total_records"`
	ByCategory   map[Category]int `json:"by_category"`
	Monthly      []MonthlyCount   `json:"monthly"`
	Undated      int              `json:"undated"`
	Recent       []RawRecord      `json:"recent"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
