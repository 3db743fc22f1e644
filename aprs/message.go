package aprs

import (
	"fmt"
	"strings"
)

// parseMessage parses a message packet (data type ':').
// Format: :ADDRESSEE:message body{id
// The addressee field is nine characters, space padded. A reply-ack id of
// the form {MM}AA keeps only the message number.
func parseMessage(payload []byte) (to, body, id string, err error) {
	s := string(payload[1:])
	if len(s) < 11 {
		return "", "", "", fmt.Errorf("message packet too short")
	}

	to = strings.TrimSpace(s[:9])
	if to == "" {
		return "", "", "", fmt.Errorf("message recipient is blank")
	}
	if s[9] != ':' {
		return "", "", "", fmt.Errorf("missing message body separator ':'")
	}

	body = s[10:]
	if i := strings.LastIndex(body, "{"); i > 0 {
		id = body[i+1:]
		body = body[:i]
		if j := strings.IndexByte(id, '}'); j >= 0 {
			id = id[:j]
		}
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", "", "", fmt.Errorf("message body is blank")
	}
	return to, body, strings.TrimSpace(id), nil
}
