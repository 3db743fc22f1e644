package link

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

const serialReadTimeout = time.Second

// connectSerial opens a serial TNC or terminal at baud, 8N1.
func connectSerial(path string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = 9600
	}
	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	// A timeout lets Close interrupt a pending read.
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	return &patientPort{Port: port}, nil
}

// patientPort hides read timeouts. go.bug.st/serial reports a timeout as a
// zero-length read, which bufio treats as a broken reader after a few
// attempts.
type patientPort struct {
	serial.Port
}

func (p *patientPort) Read(b []byte) (int, error) {
	for {
		n, err := p.Port.Read(b)
		if n > 0 || err != nil || len(b) == 0 {
			return n, err
		}
	}
}
