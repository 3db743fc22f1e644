// Package textline reads a newline-delimited text feed, such as a TNC in
// monitor mode or a chat bridge, one packet per line.
package textline

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"time"

	"gridmark/aprs"
	"gridmark/device/link"
	"gridmark/packet"
)

const maxLine = 64 * 1024

// Client reads lines from a stream.
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
	slog.Info("connected to text feed", "device", device)
	return NewClient(conn), nil
}

func NewClient(conn io.ReadWriteCloser) *Client {
	return &Client{conn: conn, log: slog.With("feed", "lines")}
}

// Start sends one packet per non-blank line and closes packetChan when the
// stream ends. Lines in TNC2 monitor format are parsed as APRS and dropped
// when they carry nothing readable; anything else is passed on as plain
// text.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	defer close(packetChan)

	sc := bufio.NewScanner(c.conn)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pkt, err := parseLine(line)
		if err != nil {
			c.log.Debug("dropping line", "line", line, "error", err)
			continue
		}
		pkt.Received = time.Now()
		packetChan <- pkt
	}
	if err := sc.Err(); err != nil {
		c.log.Warn("text feed read failed", "error", err)
	}
}

func parseLine(line string) (*packet.Packet, error) {
	if aprs.IsTNC2([]byte(line)) {
		return aprs.Parse([]byte(line))
	}
	return &packet.Packet{Type: packet.TypeText, Text: line}, nil
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
