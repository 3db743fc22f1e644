package coords

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// decimalRegex matches "lat, lon" or "lat lon" in decimal degrees. The
// leading group anchors the pair at a non-word boundary without taking part
// in the reported span.
var decimalRegex = regexp.MustCompile(
	`(?:^|[^\w.+\-])` +
		`([+\-]?\d{1,2}(?:\.\d+)?)` + // lat
		`(?:\s*,\s*|\s+)` +
		`([+\-]?\d{1,3}(?:\.\d+)?)`, // lon
)

type decimalMatcher struct{}

func (decimalMatcher) kind() Kind { return KindDecimal }

func (decimalMatcher) find(text string, runeAt []int) []candidate {
	var out []candidate
	for _, loc := range decimalRegex.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[5]
		if truncatedNumber(text[end:]) {
			continue
		}
		c := newCandidate(KindDecimal, text, runeAt, start, end)
		c.groups = []string{text[loc[2]:loc[3]], text[loc[4]:loc[5]]}
		out = append(out, c)
	}
	return out
}

// truncatedNumber reports whether rest continues the number that ended just
// before it, in which case the match only covered part of it.
func truncatedNumber(rest string) bool {
	r, size := utf8.DecodeRuneInString(rest)
	if size == 0 {
		return false
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		return true
	}
	if r == '.' {
		next, n := utf8.DecodeRuneInString(rest[size:])
		return n > 0 && unicode.IsDigit(next)
	}
	return false
}

func (decimalMatcher) decode(c candidate) (float64, float64, string, error) {
	if len(c.groups) != 2 {
		return 0, 0, "", fmt.Errorf("%w: %q is not a lat/lon pair", ErrMalformed, c.text)
	}
	lat, err := strconv.ParseFloat(c.groups[0], 64)
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: failed to parse latitude: %v", ErrMalformed, err)
	}
	lon, err := strconv.ParseFloat(c.groups[1], 64)
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: failed to parse longitude: %v", ErrMalformed, err)
	}
	if math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return 0, 0, "", fmt.Errorf("%w: non-finite value in %q", ErrMalformed, c.text)
	}
	if err := checkRange(lat, lon); err != nil {
		return 0, 0, "", err
	}
	return lat, lon, FormatDecimal(lat, lon), nil
}

// FormatDecimal renders a position the way decimal pairs are canonicalized.
func FormatDecimal(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}
