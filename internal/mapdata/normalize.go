package mapdata

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang/geo/r2"

	"github.com/easytrack/backend/internal/domain"
)

// Canvas is the percentage space markers are rendered on. Bounds are inclusive.
var Canvas = r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 100, Y: 100})

// OnCanvas reports whether the coordinate pair lies inside Canvas.
// NaN never does.
func OnCanvas(lat, lng float64) bool {
	return Canvas.ContainsPoint(r2.Point{X: lat, Y: lng})
}

// ParseCategory lower-cases s and matches it against the known categories.
// Anything unrecognized is CategoryOther.
func ParseCategory(s string) domain.Category {
	switch c := domain.Category(strings.ToLower(strings.TrimSpace(s))); c {
	case domain.CategoryWater, domain.CategoryHealth, domain.CategoryClimate, domain.CategoryEnvironment:
		return c
	default:
		return domain.CategoryOther
	}
}

// siteKey is the rounded coordinate pair that identifies a physical site
type siteKey struct {
	lat, lng int
}

func keyOf(lat, lng float64) siteKey {
	return siteKey{lat: int(math.Round(lat)), lng: int(math.Round(lng))}
}

func (k siteKey) id() string {
	return fmt.Sprintf("site-%d-%d", k.lat, k.lng)
}

// Normalize converts raw records into map point candidates, one per record with
// usable geodata. Records with a missing or off-canvas coordinate are skipped.
// Records without a timestamp are stamped with now and marked Undated.
func Normalize(records []domain.RawRecord, now time.Time) []domain.MapPoint {
	points := make([]domain.MapPoint, 0, len(records))

	for _, rec := range records {
		if rec.Latitude == nil || rec.Longitude == nil {
			continue
		}
		lat, lng := *rec.Latitude, *rec.Longitude
		if !OnCanvas(lat, lng) {
			continue
		}

		point := domain.MapPoint{
			ID:         keyOf(lat, lng).id(),
			Name:       rec.Title,
			Latitude:   lat,
			Longitude:  lng,
			Category:   ParseCategory(rec.Category),
			Status:     domain.StatusActive,
			LastUpdate: now,
			Undated:    true,
			SourceIDs:  []string{rec.ID},
			Flagged:    rec.Alert,
		}
		if rec.UpdatedAt != nil {
			point.LastUpdate = *rec.UpdatedAt
			point.Undated = false
		}

		points = append(points, point)
	}

	return points
}
