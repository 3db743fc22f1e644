package coords

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// resolve runs every matcher over normalized text in priority order. A
// candidate is accepted when it decodes to a valid position and does not
// overlap anything accepted before it; everything else is rejected with
// the reason. Accepted points come back sorted by Start with ordinals and
// colors assigned.
func resolve(text string, ms []matcher, palette []string) ([]Point, []Rejection) {
	runeAt := runeOffsets(text)

	var (
		points   []Point
		rejected []Rejection
	)
	reject := func(c candidate, err error) {
		rejected = append(rejected, Rejection{
			Kind:   c.kind,
			Start:  c.span.start,
			Length: c.span.length,
			Text:   c.text,
			Err:    err,
		})
	}

	for _, m := range ms {
		for _, c := range m.find(text, runeAt) {
			lat, lon, canonical, err := m.decode(c)
			if err != nil {
				reject(c, err)
				continue
			}
			if winner, ok := overlapping(points, c.span); ok {
				reject(c, fmt.Errorf("%w: %s %q", ErrOverlap, winner.Kind, winner.Original))
				continue
			}
			points = append(points, Point{
				Kind:      c.kind,
				Start:     c.span.start,
				Length:    c.span.length,
				Lat:       lat,
				Lon:       lon,
				Original:  strings.TrimSpace(c.text),
				Canonical: canonical,
			})
		}
	}

	// Stable, so equal starts keep matcher priority order.
	slices.SortStableFunc(points, func(a, b Point) int { return cmp.Compare(a.Start, b.Start) })
	slices.SortStableFunc(rejected, func(a, b Rejection) int { return cmp.Compare(a.Start, b.Start) })

	for i := range points {
		points[i].Ordinal = i + 1
		points[i].Color = colorFor(palette, points[i].Ordinal)
	}
	return points, rejected
}

func overlapping(points []Point, s span) (Point, bool) {
	for _, p := range points {
		if s.overlaps(span{start: p.Start, length: p.Length}) {
			return p, true
		}
	}
	return Point{}, false
}
