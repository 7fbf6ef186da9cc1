package mapdata

import (
	"fmt"
	"time"

	"github.com/easytrack/backend/internal/domain"
)

var fallbackSites = []struct {
	name     string
	lat, lng float64
	category domain.Category
}{
	{"Nairobi Water Plant", 40, 30, domain.CategoryWater},
	{"Kibera Health Center", 60, 45, domain.CategoryHealth},
	{"Mt. Kenya Climate Station", 70, 20, domain.CategoryClimate},
	{"Lake Naivasha Monitoring Point", 25, 65, domain.CategoryEnvironment},
}

// Fallback returns the fixed sample markers shown when no live data is available
func Fallback(now time.Time) []domain.MapPoint {
	points := make([]domain.MapPoint, 0, len(fallbackSites))

	for i, site := range fallbackSites {
		points = append(points, domain.MapPoint{
			ID:         keyOf(site.lat, site.lng).id(),
			Name:       site.name,
			Latitude:   site.lat,
			Longitude:  site.lng,
			Category:   site.category,
			Status:     domain.StatusActive,
			LastUpdate: now,
			SourceIDs:  []string{fmt.Sprintf("fallback:%d", i+1)},
		})
	}

	return points
}
