// Package kiss reads APRS traffic from a KISS TNC.
package kiss

import (
	"bufio"
	"bytes"
	"io"
)

// KISS protocol constants
const (
	FEND  byte = 0xC0 // Frame End
	FESC  byte = 0xDB // Frame Escape
	TFEND byte = 0xDC // Transposed Frame End
	TFESC byte = 0xDD // Transposed Frame Escape

	cmdData byte = 0x00
)

// Decoder reads KISS frames from an io.Reader
type Decoder struct {
	r *bufio.Reader

	// A closing FEND also opens the next frame.
	inFrame bool
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadFrame returns the next non-empty frame, command byte included, with
// escapes undone. Bytes before the first FEND are dropped.
func (d *Decoder) ReadFrame() ([]byte, error) {
	var frame bytes.Buffer

	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}

		switch {
		case b == FEND:
			if d.inFrame && frame.Len() > 0 {
				return frame.Bytes(), nil
			}
			// FEND FEND is an empty frame; keep waiting.
			d.inFrame = true
		case !d.inFrame:
		case b == FESC:
			b, err = d.r.ReadByte()
			if err != nil {
				return nil, err
			}
			switch b {
			case TFEND:
				frame.WriteByte(FEND)
			case TFESC:
				frame.WriteByte(FESC)
			default:
				frame.WriteByte(b)
			}
		default:
			frame.WriteByte(b)
		}
	}
}

// Encode wraps an AX.25 frame as a KISS data frame for port.
func Encode(port byte, ax25 []byte) []byte {
	out := make([]byte, 0, len(ax25)+4)
	out = append(out, FEND, port<<4|cmdData)
	for _, b := range ax25 {
		switch b {
		case FEND:
			out = append(out, FESC, TFEND)
		case FESC:
			out = append(out, FESC, TFESC)
		default:
			out = append(out, b)
		}
	}
	return append(out, FEND)
}
