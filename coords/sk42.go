package coords

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// sk42Regex matches "x5320000, y7411000": northing x and easting y in
// meters, seven digits each, separated by a comma, semicolon or space.
var sk42Regex = regexp.MustCompile(`(?i)\bx=?(\d{7})\s*[,;]?\s*y=?(\d{7})\b`)

// sk42Grid is the Gauss-Krüger grid the x/y pairs are read in: a zone
// centered on 39°E on the Krassovsky ellipsoid, scale 1.
var sk42Grid = transverseMercator{
	ellps:        krassovsky,
	centralMerid: 39,
	scale:        1,
	falseEasting: 500000,
}

// sk42ToWGS84 is the geocentric shift from the Pulkovo 1942 datum.
var sk42ToWGS84 = datumShift{dx: 24, dy: -123, dz: -94}

type sk42Matcher struct{}

func (sk42Matcher) kind() Kind { return KindSK42 }

func (sk42Matcher) find(text string, runeAt []int) []candidate {
	var out []candidate
	for _, loc := range sk42Regex.FindAllStringSubmatchIndex(text, -1) {
		c := newCandidate(KindSK42, text, runeAt, loc[0], loc[1])
		c.groups = []string{text[loc[2]:loc[3]], text[loc[4]:loc[5]]}
		out = append(out, c)
	}
	return out
}

func (sk42Matcher) decode(c candidate) (float64, float64, string, error) {
	if len(c.groups) != 2 {
		return 0, 0, "", fmt.Errorf("%w: %q is not an x/y pair", ErrMalformed, c.text)
	}
	x, err := strconv.Atoi(c.groups[0])
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: failed to parse x: %v", ErrMalformed, err)
	}
	y, err := strconv.Atoi(c.groups[1])
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: failed to parse y: %v", ErrMalformed, err)
	}
	lat, lon, err := SK42ToWGS84(float64(x), float64(y))
	if err != nil {
		return 0, 0, "", err
	}
	return lat, lon, FormatSK42(c.groups[0], c.groups[1]), nil
}

// FormatSK42 renders an x/y pair with the Cyrillic х/у labels the notation
// is written with on SK-42 maps.
func FormatSK42(x, y string) string {
	return fmt.Sprintf("х%s, у%s", x, y)
}

// SK42ToWGS84 converts a Gauss-Krüger northing x and easting y in meters to
// WGS84 degrees. A leading zone number on the easting is dropped.
func SK42ToWGS84(x, y float64) (lat, lon float64, err error) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, fmt.Errorf("%w: non-finite x/y", ErrMalformed)
	}
	easting := y
	if easting > 1000000 {
		easting = math.Mod(easting, 1000000)
	}
	lat, lon = sk42Grid.inverse(easting, x)
	if err := checkRange(lat, lon); err != nil {
		return 0, 0, err
	}
	lat, lon = sk42ToWGS84.apply(lat, lon, krassovsky, wgs84)
	if err := checkRange(lat, lon); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}
