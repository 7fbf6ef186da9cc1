package mapdata

import "github.com/easytrack/backend/internal/domain"

// Deduplicate collapses points that share a rounded coordinate pair into one.
// The earliest point in a group supplies name, category and position; source ids
// are unioned in order of appearance; LastUpdate is the newest dated contributor.
// Output order follows the first appearance of each group.
func Deduplicate(points []domain.MapPoint) []domain.MapPoint {
	out := make([]domain.MapPoint, 0, len(points))
	index := make(map[siteKey]int, len(points))
	seen := make(map[siteKey]map[string]struct{}, len(points))

	for _, p := range points {
		key := keyOf(p.Latitude, p.Longitude)

		i, ok := index[key]
		if !ok {
			merged := p
			merged.ID = key.id()
			merged.SourceIDs = make([]string, 0, len(p.SourceIDs))
			i = len(out)
			index[key] = i
			seen[key] = make(map[string]struct{})
			out = append(out, merged)
		} else {
			mergeInto(&out[i], p)
		}

		for _, id := range p.SourceIDs {
			if _, dup := seen[key][id]; dup {
				continue
			}
			seen[key][id] = struct{}{}
			out[i].SourceIDs = append(out[i].SourceIDs, id)
		}
	}

	return out
}

// mergeInto folds a later candidate's timestamp and alert flag into dst.
// An undated timestamp ranks below any dated one.
func mergeInto(dst *domain.MapPoint, p domain.MapPoint) {
	dst.Flagged = dst.Flagged || p.Flagged

	switch {
	case p.Undated:
		// dst already has a timestamp at least as good
	case dst.Undated:
		dst.LastUpdate = p.LastUpdate
		dst.Undated = false
	case p.LastUpdate.After(dst.LastUpdate):
		dst.LastUpdate = p.LastUpdate
	}
}
