package aprs

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gridmark/packet"
)

var telemetryKeywords = []string{
	"PARM",
	"UNIT",
	"EQNS",
	"BITS",
}

// ackRegex matches message acknowledgements and rejections, which carry no
// text worth scanning.
var ackRegex = regexp.MustCompile(`^(ack|rej)[A-Za-z0-9]{1,5}$`)

// isTelemetry checks if a message is likely an automated report based on
// keywords, being self-addressed or coming from a weather service.
func isTelemetry(from, to, body string) bool {
	if from == to {
		return true
	}
	for _, kw := range telemetryKeywords {
		if strings.HasPrefix(body, kw) {
			return true
		}
	}
	return strings.Contains(from, "NWS")
}

// Parse takes a raw AX.25 frame (payload from KISS) or a TNC2 text line and
// returns the human-readable part of it: a message body, a status text or a
// position with its comment.
func Parse(rawFrame []byte) (*packet.Packet, error) {
	callsign, payload, err := findPayload(rawFrame)
	if err != nil {
		return nil, fmt.Errorf("AX.25 parse failed: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty APRS payload")
	}

	pkt := &packet.Packet{
		Callsign: callsign,
		Type:     packet.TypeUnknown,
	}

	switch dataType := payload[0]; dataType {
	case '!', '/', '=', '@':
		pos, err := parseUncompressedPosition(payload)
		if err != nil {
			return nil, fmt.Errorf("uncompressed position parse failed: %w", err)
		}
		setPosition(pkt, pos)

	case ';':
		pos, err := parseObjectPosition(payload)
		if err != nil {
			return nil, fmt.Errorf("object parse failed: %w", err)
		}
		setPosition(pkt, pos)

	case ':':
		to, body, id, err := parseMessage(payload)
		if err != nil {
			return nil, fmt.Errorf("message parse failed: %w", err)
		}
		if isTelemetry(callsign, to, body) {
			return nil, fmt.Errorf("ignoring telemetry/NWS packet: %s", body)
		}
		if ackRegex.MatchString(body) {
			return nil, fmt.Errorf("ignoring message ack/rej: %s", body)
		}
		pkt.Type = packet.TypeMessage
		pkt.MsgTo = to
		pkt.Text = body
		pkt.MsgID = id

	case '>':
		status := strings.TrimSpace(string(payload[1:]))
		if status == "" {
			return nil, fmt.Errorf("status report is blank")
		}
		pkt.Type = packet.TypeStatus
		pkt.Text = status

	default:
		// Some stations put free text before the '!' of a position.
		idx := bytes.IndexByte(payload, '!')
		if idx <= 0 || idx >= 40 {
			return nil, fmt.Errorf("unsupported APRS data type: %c", dataType)
		}
		pos, err := parseUncompressedPosition(payload[idx:])
		if err != nil {
			return nil, fmt.Errorf("uncompressed position parse failed: %w", err)
		}
		setPosition(pkt, pos)
	}

	return pkt, nil
}

func setPosition(pkt *packet.Packet, pos position) {
	pkt.Type = packet.TypePosition
	pkt.Lat = pos.lat
	pkt.Lon = pos.lon
	pkt.Text = pos.comment
}
