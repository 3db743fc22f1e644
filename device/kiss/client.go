package kiss

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"gridmark/aprs"
	"gridmark/device/link"
	"gridmark/packet"
)

// Client reads frames from a KISS TNC and turns them into packets.
type Client struct {
	conn io.ReadWriteCloser
	log  *slog.Logger
}

// Connect opens device (host:port or serial port) and returns a client
// for it.
func Connect(device string, baud int) (*Client, error) {
	conn, err := link.Open(device, baud)
	if err != nil {
		return nil, err
	}
	slog.Info("connected to KISS TNC", "device", device)
	return NewClient(conn), nil
}

// NewClient wraps an already open stream.
func NewClient(conn io.ReadWriteCloser) *Client {
	return &Client{conn: conn, log: slog.With("feed", "kiss")}
}

// Start reads until the stream ends, sending every frame that parses as
// readable APRS traffic down packetChan, then closes packetChan. Run it in
// its own goroutine.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	defer close(packetChan)
	decoder := NewDecoder(c.conn)

	for {
		frame, err := decoder.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Warn("KISS read failed", "error", err)
			}
			return
		}

		// Only data frames on any port carry AX.25; the low nibble is the
		// command.
		if frame[0]&0x0F != cmdData {
			c.log.Debug("ignoring KISS command frame", "cmd", frame[0])
			continue
		}

		pkt, err := aprs.Parse(frame[1:])
		if err != nil {
			c.log.Debug("dropping frame", "error", err)
			continue
		}
		pkt.Received = time.Now()
		packetChan <- pkt
	}
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
