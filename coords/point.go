// Package coords finds geographic coordinates embedded in free-form text,
// converts them to WGS84 and rewrites the text with each coordinate
// highlighted.
//
// Three notations are recognized: MGRS grid references, decimal lat/lon
// pairs and SK-42 Gauss-Krüger x/y pairs. All offsets are rune indices into
// the normalized text (see Normalize).
package coords

import (
	"errors"
	"fmt"
)

// Kind identifies the notation a coordinate was written in. The order of the
// constants is the matcher priority: an earlier kind wins an overlap.
type Kind int

const (
	KindMGRS    Kind = iota // MGRS grid reference
	KindDecimal             // decimal WGS84 lat/lon pair
	KindSK42                // Gauss-Krüger SK-42 x/y pair
)

func (k Kind) String() string {
	switch k {
	case KindMGRS:
		return "MGRS"
	case KindDecimal:
		return "DecimalLatLon"
	case KindSK42:
		return "GaussKrugerSK42"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText writes the kind by name so JSON output reads "MGRS" rather
// than 0.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the long or the short name of a kind.
func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{KindMGRS, KindDecimal, KindSK42} {
		if s := string(b); s == c.String() || s == c.Short() {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown coordinate kind %q", b)
}

// Short returns a compact label for narrow displays.
func (k Kind) Short() string {
	switch k {
	case KindMGRS:
		return "MGRS"
	case KindDecimal:
		return "DEC"
	case KindSK42:
		return "SK42"
	default:
		return "?"
	}
}

var (
	// ErrMalformed marks a candidate whose text matched a pattern but could
	// not be decoded (bad zone, band, square letters or digit groups).
	ErrMalformed = errors.New("malformed coordinate")
	// ErrOutOfRange marks a decoded position outside |lat|<=90, |lon|<=180.
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrOverlap marks a candidate shadowed by a higher-priority match.
	ErrOverlap = errors.New("overlaps a higher-priority coordinate")
)

// Point is one accepted coordinate occurrence.
type Point struct {
	Kind      Kind    `json:"kind"`
	Start     int     `json:"start"`
	Length    int     `json:"length"`
	Lat       float64 `json:"latitude"`
	Lon       float64 `json:"longitude"`
	Original  string  `json:"original_text"`
	Canonical string  `json:"canonical_text"`
	Color     string  `json:"color"`
	Ordinal   int     `json:"ordinal"`
}

// End returns the exclusive end offset of the point's span.
func (p Point) End() int {
	return p.Start + p.Length
}

// Rejection records a candidate that was scanned but not accepted.
type Rejection struct {
	Kind   Kind
	Start  int
	Length int
	Text   string
	Err    error
}

// span is a half-open rune interval [start, start+length).
type span struct {
	start  int
	length int
}

func (s span) end() int { return s.start + s.length }

func (s span) overlaps(o span) bool {
	return s.start < o.end() && o.start < s.end()
}

// validLatLon reports whether lat/lon are finite and within WGS84 bounds.
// NaN fails every comparison, so it is rejected here too.
func validLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func checkRange(lat, lon float64) error {
	if !validLatLon(lat, lon) {
		return fmt.Errorf("%w: lat %.6f, lon %.6f", ErrOutOfRange, lat, lon)
	}
	return nil
}
