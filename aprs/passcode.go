package aprs

import (
	"fmt"
	"strings"
)

const passcodeSeed = 0x73e2

// Passcode returns the APRS-IS login passcode for callsign. The SSID is not
// part of the hash.
func Passcode(callsign string) (int, error) {
	call, _, _ := strings.Cut(strings.ToUpper(strings.TrimSpace(callsign)), "-")
	if call == "" || len(call) > 6 {
		return 0, fmt.Errorf("invalid callsign format for passcode: %q", callsign)
	}

	hash := passcodeSeed
	for i := 0; i < len(call); i++ {
		if i%2 == 0 {
			hash ^= int(call[i]) << 8
		} else {
			hash ^= int(call[i])
		}
	}
	return hash & 0x7fff, nil
}
