package coords

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// mgrsRegex matches a grid reference such as "36U YA 23408 06785":
// zone, latitude band (C-X without I/O), 100 km square letters, then the
// easting and northing digit groups.
var mgrsRegex = regexp.MustCompile(
	`(?i)\b\d{1,2}[C-HJ-NP-X]\s*` + // zone + band
		`[A-HJ-NP-Z][A-HJ-NP-V]\s*` + // 100k square: column, row
		`\d{1,5}\s*\d{1,5}\b`, // easting, northing
)

const (
	// Column and row letters of the first 100 km square in each of the six
	// MGRS square-identification sets.
	setOriginColumns = "AJSAJS"
	setOriginRows    = "AFAFAF"
	num100kSets      = 6
)

// minNorthing is the lowest northing, in meters, any point of a latitude
// band can have. Band letters repeat their 100 km row letters every 2000 km,
// so this picks the right 2000 km cycle.
var minNorthing = map[byte]float64{
	'C': 1100000, 'D': 2000000, 'E': 2800000, 'F': 3700000,
	'G': 4600000, 'H': 5500000, 'J': 6400000, 'K': 7300000,
	'L': 8200000, 'M': 9100000, 'N': 0, 'P': 800000,
	'Q': 1700000, 'R': 2600000, 'S': 3500000, 'T': 4400000,
	'U': 5300000, 'V': 6200000, 'W': 7000000, 'X': 7900000,
}

type mgrsMatcher struct{}

func (mgrsMatcher) kind() Kind { return KindMGRS }

func (mgrsMatcher) find(text string, runeAt []int) []candidate {
	var out []candidate
	for _, loc := range mgrsRegex.FindAllStringIndex(text, -1) {
		out = append(out, newCandidate(KindMGRS, text, runeAt, loc[0], loc[1]))
	}
	return out
}

func (mgrsMatcher) decode(c candidate) (float64, float64, string, error) {
	lat, lon, err := DecodeMGRS(c.text)
	if err != nil {
		return 0, 0, "", err
	}
	return lat, lon, Transliterate(strings.TrimSpace(c.text)), nil
}

// utmPoint is a decoded grid position.
type utmPoint struct {
	zone     int
	band     byte
	easting  float64
	northing float64
	accuracy float64 // side of the precision square in meters
}

// DecodeMGRS converts an MGRS reference to WGS84 degrees. The returned
// position is the center of the square the reference's precision denotes.
func DecodeMGRS(token string) (lat, lon float64, err error) {
	p, err := parseMGRS(token)
	if err != nil {
		return 0, 0, err
	}
	lat, lon = utmToLatLon(p.zone, p.band, p.easting+p.accuracy/2, p.northing+p.accuracy/2)
	if err := checkRange(lat, lon); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func parseMGRS(token string) (utmPoint, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(token), ""))

	i := 0
	for i < len(s) && i < 2 && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return utmPoint{}, fmt.Errorf("%w: missing zone in %q", ErrMalformed, token)
	}
	zone, _ := strconv.Atoi(s[:i])
	if zone < 1 || zone > 60 {
		return utmPoint{}, fmt.Errorf("%w: zone %d not in 1-60", ErrMalformed, zone)
	}
	if len(s) < i+3 {
		return utmPoint{}, fmt.Errorf("%w: %q too short", ErrMalformed, token)
	}

	band := s[i]
	minN, ok := minNorthing[band]
	if !ok {
		return utmPoint{}, fmt.Errorf("%w: invalid latitude band %c", ErrMalformed, band)
	}

	set := zone % num100kSets
	if set == 0 {
		set = num100kSets
	}
	east100k, err := eastingFromLetter(s[i+1], set)
	if err != nil {
		return utmPoint{}, err
	}
	north100k, err := northingFromLetter(s[i+2], set)
	if err != nil {
		return utmPoint{}, err
	}
	for north100k < minN {
		north100k += 2000000
	}

	digits, err := splitDigitGroups(token, s[i+3:])
	if err != nil {
		return utmPoint{}, err
	}
	precision := len(digits[0])
	accuracy := 100000.0
	for range precision {
		accuracy /= 10
	}

	var e, n float64
	if precision > 0 {
		ev, _ := strconv.Atoi(digits[0])
		nv, _ := strconv.Atoi(digits[1])
		e = float64(ev) * accuracy
		n = float64(nv) * accuracy
	}

	return utmPoint{
		zone:     zone,
		band:     band,
		easting:  east100k + e,
		northing: north100k + n,
		accuracy: accuracy,
	}, nil
}

// splitDigitGroups returns the easting and northing digit strings. Groups
// written apart must have equal length; a run of digits is split in half.
func splitDigitGroups(token, joined string) ([2]string, error) {
	for j := 0; j < len(joined); j++ {
		if !isDigit(joined[j]) {
			return [2]string{}, fmt.Errorf("%w: unexpected %q in %q", ErrMalformed, joined[j], token)
		}
	}
	if len(joined)%2 != 0 || len(joined) > 10 {
		return [2]string{}, fmt.Errorf("%w: uneven easting/northing digits in %q", ErrMalformed, token)
	}

	fields := strings.Fields(token)
	if len(fields) > 1 {
		last := fields[len(fields)-1]
		prev := fields[len(fields)-2]
		if allDigits(last) && allDigits(prev) && len(last) != len(prev) {
			return [2]string{}, fmt.Errorf("%w: easting %q and northing %q differ in precision", ErrMalformed, prev, last)
		}
	}

	half := len(joined) / 2
	return [2]string{joined[:half], joined[half:]}, nil
}

// eastingFromLetter walks from the set's first column letter to col,
// skipping I and O, and returns the 100 km easting of that column.
func eastingFromLetter(col byte, set int) (float64, error) {
	cur := setOriginColumns[set-1]
	easting := 100000.0
	rewound := false
	for cur != col {
		cur++
		if cur == 'I' {
			cur++
		}
		if cur == 'O' {
			cur++
		}
		if cur > 'Z' {
			if rewound {
				return 0, fmt.Errorf("%w: bad column letter %c", ErrMalformed, col)
			}
			cur = 'A'
			rewound = true
		}
		easting += 100000
	}
	if easting > 800000 {
		return 0, fmt.Errorf("%w: column letter %c outside zone set %d", ErrMalformed, col, set)
	}
	return easting, nil
}

// northingFromLetter is the row counterpart of eastingFromLetter; row
// letters run A-V and repeat every 2000 km.
func northingFromLetter(row byte, set int) (float64, error) {
	if row > 'V' {
		return 0, fmt.Errorf("%w: bad row letter %c", ErrMalformed, row)
	}
	cur := setOriginRows[set-1]
	northing := 0.0
	rewound := false
	for cur != row {
		cur++
		if cur == 'I' {
			cur++
		}
		if cur == 'O' {
			cur++
		}
		if cur > 'V' {
			if rewound {
				return 0, fmt.Errorf("%w: bad row letter %c", ErrMalformed, row)
			}
			cur = 'A'
			rewound = true
		}
		northing += 100000
	}
	return northing, nil
}

// utmToLatLon inverts a WGS84 UTM position. Bands C-M are south of the
// equator and carry a 10000 km false northing.
func utmToLatLon(zone int, band byte, easting, northing float64) (float64, float64) {
	tm := transverseMercator{
		ellps:        wgs84,
		centralMerid: float64((zone-1)*6 - 180 + 3),
		scale:        0.9996,
		falseEasting: 500000,
	}
	if band < 'N' {
		tm.falseNorthing = 10000000
	}
	return tm.inverse(easting, northing)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
