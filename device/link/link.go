// Package link opens the byte stream a feed is read from.
package link

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Open connects to device. Anything that looks like host:port is dialed
// over TCP; everything else is treated as a serial port opened at baud.
func Open(device string, baud int) (io.ReadWriteCloser, error) {
	if device == "" {
		return nil, fmt.Errorf("no device given (host:port, /dev/ttyUSB0 or COM3)")
	}
	if IsNetwork(device) {
		slog.Info("connecting over TCP", "address", device)
		return connectTCP(device)
	}
	slog.Info("opening serial port", "device", device, "baud", baud)
	return connectSerial(device, baud)
}

// IsNetwork reports whether device names a TCP endpoint. Windows drive
// paths such as C:\ are not.
func IsNetwork(device string) bool {
	i := strings.LastIndexByte(device, ':')
	if i <= 0 || i == len(device)-1 {
		return false
	}
	for _, c := range device[i+1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
