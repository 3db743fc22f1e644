package aprs

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	controlUI byte = 0x03
	addrLen        = 7
	maxDigis       = 8
)

// findPayload returns the source callsign and the APRS payload of frame,
// which may be a TNC2 text line (CALL>DEST,PATH:payload) or a raw AX.25 UI
// frame.
func findPayload(frame []byte) (string, []byte, error) {
	if IsTNC2(frame) {
		return findPayloadText(frame)
	}
	return findPayloadAX25(frame)
}

// IsTNC2 reports whether frame looks like a text monitor line: printable
// header with a '>' before the first ':'.
func IsTNC2(frame []byte) bool {
	colon := bytes.IndexByte(frame, ':')
	if colon < 3 {
		return false
	}
	for _, b := range frame[:colon] {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return bytes.IndexByte(frame[:colon], '>') > 0
}

func findPayloadText(frame []byte) (string, []byte, error) {
	colon := bytes.IndexByte(frame, ':')
	header := string(frame[:colon])
	payload := bytes.TrimRight(frame[colon+1:], "\r\n")

	src := header[:strings.IndexByte(header, '>')]
	if len(src) > 9 {
		return "", nil, fmt.Errorf("invalid source callsign format: %s", src)
	}

	// Third-party traffic wraps another TNC2 line.
	if len(payload) > 0 && payload[0] == '}' && IsTNC2(payload[1:]) {
		return findPayloadText(payload[1:])
	}
	return src, payload, nil
}

// findPayloadAX25 walks the address field of a raw AX.25 frame (from KISS).
func findPayloadAX25(frame []byte) (string, []byte, error) {
	if len(frame) < 2*addrLen+2 {
		return "", nil, fmt.Errorf("frame too short for AX.25")
	}

	src, _, err := parseAddressBytes(frame[addrLen : 2*addrLen])
	if err != nil {
		return "", nil, fmt.Errorf("invalid AX.25 source address: %w", err)
	}

	// The last address has bit 0 of its SSID byte set.
	end := 2 * addrLen
	for n := 0; frame[end-1]&0x01 == 0; n++ {
		if n == maxDigis || end+addrLen > len(frame) {
			return "", nil, fmt.Errorf("could not find end of AX.25 address path")
		}
		end += addrLen
	}

	if end+2 > len(frame) {
		return "", nil, fmt.Errorf("could not find AX.25 control/PID fields after address path")
	}
	if ctl := frame[end]; ctl != controlUI {
		return "", nil, fmt.Errorf("not a UI frame (control: 0x%02X)", ctl)
	}
	// PID is not checked: some TNCs do not set it to 0xF0.
	payload := frame[end+2:]

	if len(payload) > 0 && payload[0] == '}' && IsTNC2(payload[1:]) {
		return findPayloadText(payload[1:])
	}
	return src, payload, nil
}

// parseAddressBytes decodes a 7-byte AX.25 address field into CALL-SSID.
func parseAddressBytes(addr []byte) (string, byte, error) {
	if len(addr) != addrLen {
		return "", 0, fmt.Errorf("address length is not 7 bytes")
	}

	var call strings.Builder
	for _, b := range addr[:6] {
		c := b >> 1
		if c == 0 {
			break
		}
		if c <= ' ' || c > '~' {
			continue
		}
		call.WriteByte(c)
	}
	if call.Len() == 0 {
		return "", 0, fmt.Errorf("decoded callsign is empty")
	}

	ssidByte := addr[6]
	if ssid := (ssidByte >> 1) & 0x0F; ssid > 0 {
		return fmt.Sprintf("%s-%d", call.String(), ssid), ssidByte, nil
	}
	return call.String(), ssidByte, nil
}

// encodeAddress is the inverse of parseAddressBytes. last marks the final
// address of the path.
func encodeAddress(call string, last bool) []byte {
	name, ssid := call, 0
	if i := strings.IndexByte(call, '-'); i >= 0 {
		name = call[:i]
		fmt.Sscanf(call[i+1:], "%d", &ssid)
	}
	addr := make([]byte, addrLen)
	for i := range 6 {
		c := byte(' ')
		if i < len(name) {
			c = name[i]
		}
		addr[i] = c << 1
	}
	addr[6] = 0x60 | byte(ssid&0x0F)<<1
	if last {
		addr[6] |= 0x01
	}
	return addr
}

// EncodeUI builds a raw AX.25 UI frame from src to dst via path carrying
// payload. Feed simulators and tests use it to produce KISS traffic.
func EncodeUI(src, dst string, path []string, payload []byte) []byte {
	var frame bytes.Buffer
	frame.Write(encodeAddress(dst, false))
	frame.Write(encodeAddress(src, len(path) == 0))
	for i, digi := range path {
		frame.Write(encodeAddress(digi, i == len(path)-1))
	}
	frame.WriteByte(controlUI)
	frame.WriteByte(0xF0)
	frame.Write(payload)
	return frame.Bytes()
}
