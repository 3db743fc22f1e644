package aprs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// position is a decoded uncompressed position report.
type position struct {
	lat, lon float64
	name     string // object name, empty for station positions
	comment  string
}

// normalPosRegex matches DDMM.hhN/DDDMM.hhW$comment. Spaces in the minutes
// are position ambiguity.
//
//	1-3: lat degrees, minutes, hemisphere
//	4:   symbol table
//	5-7: lon degrees, minutes, hemisphere
//	8:   symbol
//	9:   comment
var normalPosRegex = regexp.MustCompile(
	`^(\d{2})([0-9 ]{2}\.[0-9 ]{2})([NnSs])` +
		`([\/\\0-9A-Z])` +
		`(\d{3})([0-9 ]{2}\.[0-9 ]{2})([EeWw])` +
		`([\x21-\x7e])` +
		`(.*)$`,
)

// phgRegex strips the fixed-width data extensions a comment may start with
// (course/speed, PHG, RNG, DFS).
var phgRegex = regexp.MustCompile(`^(?:\d{3}/\d{3}|PHG\d{4}|RNG\d{4}|DFS\d{4})`)

// parseAngle converts APRS DDMM.hh / DDDMM.hh to decimal degrees. neg is the
// hemisphere letter that makes the value negative.
func parseAngle(degStr, minStr, dirStr, pos, neg string) (float64, error) {
	minStr = strings.ReplaceAll(minStr, " ", "5")

	deg, err := strconv.ParseFloat(degStr, 64)
	if err != nil {
		return 0, err
	}
	min, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return 0, err
	}
	if min >= 60 {
		return 0, fmt.Errorf("minutes out of range: %s", minStr)
	}

	dec := deg + min/60.0
	switch strings.ToUpper(dirStr) {
	case pos:
	case neg:
		dec = -dec
	default:
		return 0, fmt.Errorf("invalid hemisphere: %s", dirStr)
	}
	return dec, nil
}

// parseNormal handles uncompressed position reports. payload starts with the
// data type identifier.
func parseNormal(payload string) (position, error) {
	if len(payload) < 18 {
		return position{}, fmt.Errorf("packet too short")
	}

	body := payload[1:]
	if dataType := payload[0]; dataType == '/' || dataType == '@' {
		// HHMMSSz timestamp, skipped
		if len(body) < 7 {
			return position{}, fmt.Errorf("timestamped packet too short")
		}
		body = body[7:]
	}

	matches := normalPosRegex.FindStringSubmatch(body)
	if matches == nil {
		return position{}, fmt.Errorf("invalid uncompressed position format")
	}

	lat, err := parseAngle(matches[1], matches[2], matches[3], "N", "S")
	if err != nil {
		return position{}, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lon, err := parseAngle(matches[5], matches[6], matches[7], "E", "W")
	if err != nil {
		return position{}, fmt.Errorf("failed to parse longitude: %w", err)
	}
	if lat > 90 || lon > 180 {
		return position{}, fmt.Errorf("position out of range: %f, %f", lat, lon)
	}

	comment := phgRegex.ReplaceAllString(matches[9], "")
	return position{lat: lat, lon: lon, comment: strings.TrimSpace(comment)}, nil
}

func parseUncompressedPosition(payload []byte) (position, error) {
	return parseNormal(string(payload))
}

// parseObjectPosition handles ';' object reports:
// ;OBJECTNAME*HHMMSSzDDMM.hhN/DDDMM.hhW$...
// The object name is prepended to the comment.
func parseObjectPosition(payload []byte) (position, error) {
	s := string(payload)
	if len(s) < 18 {
		return position{}, fmt.Errorf("object packet too short")
	}
	if s[0] != ';' {
		return position{}, fmt.Errorf("not an object report")
	}
	if s[10] != '*' && s[10] != '_' {
		return position{}, fmt.Errorf("invalid object marker: %c", s[10])
	}

	pos, err := parseNormal("/" + s[11:])
	if err != nil {
		return position{}, err
	}
	pos.name = strings.TrimSpace(s[1:10])
	pos.comment = strings.TrimSpace(pos.name + " " + pos.comment)
	return pos, nil
}
