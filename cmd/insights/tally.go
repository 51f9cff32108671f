package main

import (
	"fmt"
	"io"
	"sort"

	"placefacts/internal/facts"
	"placefacts/internal/lookup"
)

type placeStats struct {
	name      string
	hits      int
	fallbacks int
	distance  float64
}

// tally counts result events per place.
type tally struct {
	places map[string]*placeStats
	total  int
}

func newTally() *tally {
	return &tally{places: make(map[string]*placeStats)}
}

func (t *tally) add(e lookup.Event) {
	s, ok := t.places[e.Place]
	if !ok {
		s = &placeStats{name: e.Place}
		t.places[e.Place] = s
	}
	s.hits++
	s.distance += e.DistanceKm
	if e.FactSource == string(facts.SourceFallback) {
		s.fallbacks++
	}
	t.total++
}

func (t *tally) line(e lookup.Event) string {
	s := t.places[e.Place]
	return fmt.Sprintf("%s  %-40s hits=%d total=%d", e.ProcessedAt.Format("15:04:05"), e.Place, s.hits, t.total)
}

// top returns places ordered by hits, then name.
func (t *tally) top() []*placeStats {
	out := make([]*placeStats, 0, len(t.places))
	for _, s := range t.places {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].hits != out[j].hits {
			return out[i].hits > out[j].hits
		}
		return out[i].name < out[j].name
	})
	return out
}

func (t *tally) print(w io.Writer) {
	fmt.Fprintf(w, "\n%d results for %d places\n", t.total, len(t.places))
	for _, s := range t.top() {
		fmt.Fprintf(w, "%6d  %-40s avg %.2f km, %d fallbacks\n", s.hits, s.name, s.distance/float64(s.hits), s.fallbacks)
	}
}
