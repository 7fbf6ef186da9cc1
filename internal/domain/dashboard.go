package domain

import "time"

// KPIs summarizes the current map state for the analytics cards
type KPIs struct {
	TotalSites  int              `json:"total_sites"`
	ActiveSites int              `json:"active_sites"`
	AlertSites  int              `json:"alert_sites"`
	AlertRate   float64          `json:"alert_rate"`
	ByCategory  map[Category]int `json:"by_category"`
}

// DashboardData aggregates all live monitoring data
type DashboardData struct {
	Map       MapSnapshot `json:"map"`
	KPIs      KPIs        `json:"kpis"`
	Timestamp time.Time   `json:"timestamp"`
}
