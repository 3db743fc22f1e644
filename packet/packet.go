package packet

import (
	"strings"
	"time"

	"gridmark/coords"
)

// Type defines what kind of traffic a packet carried.
type Type int

const (
	TypePosition Type = iota // A position report, rendered as decimal text
	TypeMessage              // An addressed message
	TypeStatus               // A status report
	TypeText                 // A plain text line from a LINES feed
	TypeUnknown              // Unknown or unparsed
)

func (t Type) String() string {
	switch t {
	case TypePosition:
		return "position"
	case TypeMessage:
		return "message"
	case TypeStatus:
		return "status"
	case TypeText:
		return "text"
	default:
		return "unknown"
	}
}

// Packet is one piece of received text destined for the editor.
type Packet struct {
	Callsign string // Source callsign, empty for plain lines
	Type     Type

	// Fields for TypePosition
	Lat float64
	Lon float64

	// Fields for TypeMessage
	MsgTo string
	MsgID string

	// Message body, status text, position comment or the whole line
	Text string

	Received time.Time
}

// Body returns the text the detector should see. A position report is
// written out as a decimal pair so it is picked up like any typed
// coordinate.
func (p *Packet) Body() string {
	if p.Type != TypePosition {
		return p.Text
	}
	pos := coords.FormatDecimal(p.Lat, p.Lon)
	if p.Text == "" {
		return pos
	}
	return pos + " " + p.Text
}

// String renders the packet as a single editor line: "CALL: body".
func (p *Packet) String() string {
	body := strings.TrimSpace(p.Body())
	if p.Callsign == "" {
		return body
	}
	if p.Type == TypeMessage && p.MsgTo != "" {
		return p.Callsign + " > " + p.MsgTo + ": " + body
	}
	return p.Callsign + ": " + body
}
