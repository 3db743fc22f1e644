package aprs

import (
	"fmt"
	"strings"
)

// LocatorCenter returns the center of a 4 or 6 character Maidenhead locator
// such as "KN29" or "KN29bk".
func LocatorCenter(locator string) (lat, lon float64, err error) {
	loc := strings.ToUpper(strings.TrimSpace(locator))
	if len(loc) != 4 && len(loc) != 6 {
		return 0, 0, fmt.Errorf("locator must have 4 or 6 characters: %q", locator)
	}
	if !between(loc[0], 'A', 'R') || !between(loc[1], 'A', 'R') ||
		!between(loc[2], '0', '9') || !between(loc[3], '0', '9') {
		return 0, 0, fmt.Errorf("invalid locator: %q", locator)
	}

	// Field is 20x10 degrees, square 2x1.
	lon = float64(loc[0]-'A')*20 - 180 + float64(loc[2]-'0')*2
	lat = float64(loc[1]-'A')*10 - 90 + float64(loc[3]-'0')

	if len(loc) == 4 {
		return lat + 0.5, lon + 1, nil
	}

	if !between(loc[4], 'A', 'X') || !between(loc[5], 'A', 'X') {
		return 0, 0, fmt.Errorf("invalid locator subsquare: %q", locator)
	}
	// Subsquare is 5' of longitude by 2.5' of latitude.
	lon += float64(loc[4]-'A')*(2.0/24) + 1.0/24
	lat += float64(loc[5]-'A')*(1.0/24) + 0.5/24
	return lat, lon, nil
}

func between(b, lo, hi byte) bool { return b >= lo && b <= hi }
