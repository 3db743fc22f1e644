package main

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"gridmark/config"
	"gridmark/device/aprsis"
	"gridmark/device/kiss"
	"gridmark/device/textline"
	"gridmark/packet"
)

// PacketClient defines the interface for TNC/network clients
type PacketClient interface {
	Start(chan<- *packet.Packet)
	Close()
}

// connectFeed opens the configured feed. It returns a nil client when no
// feed is configured.
func connectFeed(conf config.Config) (PacketClient, error) {
	switch conf.Feed.Type {
	case config.FeedNone:
		return nil, nil
	case config.FeedKISS:
		return kiss.Connect(conf.Feed.Device, conf.Feed.Baud)
	case config.FeedLines:
		return textline.Connect(conf.Feed.Device, conf.Feed.Baud)
	case config.FeedAPRSIS:
		return aprsis.Connect(conf)
	default:
		return nil, fmt.Errorf("unknown feed type in config: %s", conf.Feed.Type)
	}
}

// newAutoApplyLimiter allows one feed-triggered apply per interval. A zero
// interval applies on every packet.
func newAutoApplyLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
