// Package aprsis reads APRS traffic from an APRS-IS server.
package aprsis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"gridmark/aprs"
	"gridmark/config"
	"gridmark/packet"
)

const (
	appName      = "gridmark"
	appVersion   = "0.1"
	dialTimeout  = 15 * time.Second
	loginTimeout = 10 * time.Second
)

// Client represents an active connection to an APRS-IS server
type Client struct {
	conn       net.Conn
	reader     *bufio.Reader
	callsign   string
	filter     string
	log        *slog.Logger
	IsVerified bool
}

// Connect logs in to the server named by feed.device (or the public
// rotation) with a range filter around the feed center. A missing or
// wrong passcode gives a read-only login, which is all a receive-only
// feed needs.
func Connect(conf config.Config) (*Client, error) {
	callsign := strings.ToUpper(conf.Feed.Callsign)
	if callsign == "" {
		return nil, fmt.Errorf("callsign missing in config for APRS-IS")
	}
	lat, lon, err := conf.FeedCenter()
	if err != nil {
		return nil, err
	}

	log := slog.With("feed", "aprsis")
	passcode := conf.Feed.Passcode
	if expected, err := aprs.Passcode(callsign); err != nil || passcode != expected {
		if passcode > 0 {
			log.Warn("APRS-IS passcode does not match callsign, connecting read-only", "callsign", callsign)
		}
		passcode = -1
	}

	server := conf.Feed.Device
	if server == "" {
		server = config.DefaultAPRSISServer
	}
	log.Info("connecting to APRS-IS", "server", server)
	conn, err := net.DialTimeout("tcp", server, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to APRS-IS server %s: %w", server, err)
	}

	c := &Client{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		callsign: callsign,
		filter:   RangeFilter(lat, lon, conf.Feed.RadiusKm),
		log:      log,
	}
	if err := c.login(passcode); err != nil {
		c.Close()
		return nil, fmt.Errorf("APRS-IS login failed: %w", err)
	}
	log.Info("APRS-IS login done", "verified", c.IsVerified, "filter", c.filter)
	return c, nil
}

// RangeFilter is the server-side filter for traffic within radiusKm of a
// point.
func RangeFilter(lat, lon float64, radiusKm int) string {
	return fmt.Sprintf("r/%.3f/%.3f/%d", lat, lon, radiusKm)
}

// login sends the login line and waits for the server's logresp.
func (c *Client) login(passcode int) error {
	loginStr := fmt.Sprintf("user %s pass %d vers %s %s filter %s\r\n",
		c.callsign, passcode, appName, appVersion, c.filter)
	if _, err := io.WriteString(c.conn, loginStr); err != nil {
		return fmt.Errorf("failed to send login string: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(loginTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return fmt.Errorf("timeout waiting for login response from server")
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("connection closed unexpectedly during login")
			}
			return fmt.Errorf("error reading login response: %w", err)
		}
		line := strings.TrimSpace(string(lineBytes))
		c.log.Debug("APRS-IS server", "line", line)

		if !strings.HasPrefix(line, "#") {
			// Data before logresp; the server accepted us read-only.
			c.IsVerified = false
			return nil
		}
		if !strings.HasPrefix(line, "# logresp ") {
			continue
		}

		// # logresp CALL verified|unverified, server ID
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		if !strings.EqualFold(parts[2], c.callsign) {
			return fmt.Errorf("login response callsign mismatch: expected %s, got %s", c.callsign, parts[2])
		}
		c.IsVerified = passcode != -1 && strings.HasPrefix(parts[3], "verified")
		return nil
	}
}

// Start reads the stream, sending every line that parses as readable APRS
// traffic down packetChan, and closes packetChan when the connection ends.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	defer close(packetChan)

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.log.Info("APRS-IS connection closed")
			} else {
				c.log.Warn("error reading APRS-IS stream", "error", err)
			}
			return
		}

		line := strings.TrimSpace(string(lineBytes))
		if line == "" || line[0] == '#' {
			continue
		}
		pkt, err := aprs.Parse([]byte(line))
		if err != nil {
			c.log.Debug("dropping line", "error", err)
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
