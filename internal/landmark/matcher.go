// Package landmark holds the in-memory landmark dataset and answers
// nearest-landmark queries against it.
package landmark

import (
	"placefacts/internal/models"
	"placefacts/pkg/geo"
)

// DefaultMaxDistanceKm is the match radius used when none is configured.
const DefaultMaxDistanceKm = 10.0

// MatchResult pairs a landmark with its distance from the query point.
type MatchResult struct {
	Landmark   models.Landmark
	DistanceKm float64
}

// Matcher finds the landmark closest to a point. Its dataset is fixed at
// construction, so a Matcher is safe for concurrent use.
type Matcher struct {
	landmarks []models.Landmark
}

// NewMatcher copies landmarks into a new Matcher. Iteration order, and
// therefore tie-breaking, follows the order of the input slice.
func NewMatcher(landmarks []models.Landmark) *Matcher {
	own := make([]models.Landmark, len(landmarks))
	copy(own, landmarks)
	return &Matcher{landmarks: own}
}

// Len returns the number of landmarks in the dataset.
func (m *Matcher) Len() int {
	return len(m.landmarks)
}

// FindNearest scans every landmark and returns the closest one no farther
// than maxDistanceKm. Among exact ties the earliest landmark wins. The second
// return value is false when nothing lies within the radius.
func (m *Matcher) FindNearest(lat, lon, maxDistanceKm float64) (MatchResult, bool) {
	best := -1
	bestDistance := 0.0

	for i := range m.landmarks {
		c := m.landmarks[i].Coordinates
		d := geo.Distance(lat, lon, c.Lat, c.Lon)
		if d > maxDistanceKm {
			continue
		}
		if best == -1 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best == -1 {
		return MatchResult{}, false
	}
	return MatchResult{Landmark: m.landmarks[best], DistanceKm: bestDistance}, true
}
