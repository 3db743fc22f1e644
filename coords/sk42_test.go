package coords

import (
	"errors"
	"math"
	"testing"
)

func TestSK42ToWGS84(t *testing.T) {
	tests := []struct {
		name     string
		x, y     float64
		lat, lon float64
	}{
		{"donetsk", 5320000, 7411000, 48.006942, 37.805723},
		{"donetsk west", 5318000, 7400000, 47.987333, 37.658805},
		{"crimea", 5054472, 7030523, 45.466493, 32.995202},
		{"zone prefix already stripped", 5320000, 411000, 48.006942, 37.805723},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lat, lon, err := SK42ToWGS84(tc.x, tc.y)
			if err != nil {
				t.Fatalf("SK42ToWGS84(%v, %v) error: %v", tc.x, tc.y, err)
			}
			if math.Abs(lat-tc.lat) > 1e-5 || math.Abs(lon-tc.lon) > 1e-5 {
				t.Errorf("SK42ToWGS84(%v, %v) = (%f, %f), want (%f, %f)", tc.x, tc.y, lat, lon, tc.lat, tc.lon)
			}
		})
	}
}

func TestSK42ToWGS84NonFinite(t *testing.T) {
	if _, _, err := SK42ToWGS84(math.NaN(), 7411000); !errors.Is(err, ErrMalformed) {
		t.Errorf("NaN x: error = %v, want ErrMalformed", err)
	}
	if _, _, err := SK42ToWGS84(5320000, math.Inf(1)); !errors.Is(err, ErrMalformed) {
		t.Errorf("Inf y: error = %v, want ErrMalformed", err)
	}
}

func TestSK42Matcher(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		canonical string
	}{
		{"space separated", "x5054472 y7030523", "х5054472, у7030523"},
		{"comma", "x5320000, y7411000", "х5320000, у7411000"},
		{"semicolon tight", "X5320000;Y7411000", "х5320000, у7411000"},
		{"equals signs", "x=5320000 y=7411000", "х5320000, у7411000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cs := sk42Matcher{}.find(tc.text, runeOffsets(tc.text))
			if len(cs) != 1 {
				t.Fatalf("find(%q) returned %d candidates, want 1", tc.text, len(cs))
			}
			if cs[0].text != tc.text {
				t.Errorf("candidate text = %q, want %q", cs[0].text, tc.text)
			}
			_, _, canonical, err := sk42Matcher{}.decode(cs[0])
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if canonical != tc.canonical {
				t.Errorf("canonical = %q, want %q", canonical, tc.canonical)
			}
		})
	}
}

func TestSK42MatcherRejectsShortNumbers(t *testing.T) {
	for _, text := range []string{"x532000 y7411000", "x53200000 y7411000", "ax5320000 y7411000"} {
		if cs := (sk42Matcher{}).find(text, runeOffsets(text)); len(cs) != 0 {
			t.Errorf("find(%q) = %d candidates, want none", text, len(cs))
		}
	}
}
