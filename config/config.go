package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"gridmark/aprs"
	"gridmark/coords"
)

// DefaultPath is where the config is looked for when -config is not given.
const DefaultPath = "config.toml"

// Config holds all application configuration
type Config struct {
	Map      MapConfig      `toml:"map"`
	Annotate AnnotateConfig `toml:"annotate"`
	Feed     FeedConfig     `toml:"feed"`
	Log      LogConfig      `toml:"log"`
}

// MapConfig holds map-pane settings
type MapConfig struct {
	Basemap     string  `toml:"basemap"` // shapefile, optional
	Center      string  `toml:"center"`  // any notation coords recognizes
	DefaultZoom float64 `toml:"defaultzoom"`
	FitPadding  float64 `toml:"fitpadding"`
}

// AnnotateConfig controls how detected coordinates are highlighted.
type AnnotateConfig struct {
	Palette []string `toml:"palette"`
	Style   string   `toml:"style"` // "terminal" or "html"
}

// FeedConfig describes the optional radio text feed.
type FeedConfig struct {
	Type        string        `toml:"type"`   // "", "KISS", "LINES" or "APRSIS"
	Device      string        `toml:"device"` // host:port or serial device
	Baud        int           `toml:"baud"`
	AutoApply   bool          `toml:"autoapply"`
	MinInterval time.Duration `toml:"mininterval"`

	// APRS-IS login and server-side range filter
	Callsign string `toml:"callsign"`
	Passcode int    `toml:"passcode"`
	Locator  string `toml:"locator"` // Maidenhead, filter center
	RadiusKm int    `toml:"radiuskm"`
}

// LogConfig holds log destination and verbosity.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

const (
	StyleTerminal = "terminal"
	StyleHTML     = "html"

	FeedNone   = ""
	FeedKISS   = "KISS"
	FeedLines  = "LINES"
	FeedAPRSIS = "APRSIS"

	DefaultAPRSISServer = "rotate.aprs.net:14580"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Map: MapConfig{
			DefaultZoom: 1,
			FitPadding:  1.5,
		},
		Annotate: AnnotateConfig{
			Style: StyleTerminal,
		},
		Feed: FeedConfig{
			Baud:        9600,
			MinInterval: 2 * time.Second,
			RadiusKm:    200,
		},
		Log: LogConfig{
			File:  "gridmark.log",
			Level: "info",
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return conf, nil
	}
	if err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	conf.Feed.Type = strings.ToUpper(conf.Feed.Type)

	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if c.Map.DefaultZoom <= 0 {
		errs = append(errs, fmt.Errorf("map.defaultzoom must be positive, got %v", c.Map.DefaultZoom))
	}
	if c.Map.FitPadding < 0 {
		errs = append(errs, fmt.Errorf("map.fitpadding must not be negative, got %v", c.Map.FitPadding))
	}
	if c.Map.Center != "" {
		if _, _, ok := c.CenterPoint(); !ok {
			errs = append(errs, fmt.Errorf("map.center %q is not a single recognizable coordinate", c.Map.Center))
		}
	}

	for _, color := range c.Annotate.Palette {
		if !hexColor.MatchString(color) {
			errs = append(errs, fmt.Errorf("annotate.palette: %q is not a hex color", color))
		}
	}
	switch c.Annotate.Style {
	case StyleTerminal, StyleHTML:
	default:
		errs = append(errs, fmt.Errorf("annotate.style must be %q or %q, got %q", StyleTerminal, StyleHTML, c.Annotate.Style))
	}

	switch c.Feed.Type {
	case FeedNone:
	case FeedKISS, FeedLines:
		if c.Feed.Device == "" {
			errs = append(errs, fmt.Errorf("feed.device is required for feed type %s", c.Feed.Type))
		}
		if c.Feed.Baud <= 0 {
			errs = append(errs, fmt.Errorf("feed.baud must be positive, got %d", c.Feed.Baud))
		}
	case FeedAPRSIS:
		if c.Feed.Callsign == "" {
			errs = append(errs, fmt.Errorf("feed.callsign is required for APRS-IS"))
		}
		if c.Feed.RadiusKm <= 0 {
			errs = append(errs, fmt.Errorf("feed.radiuskm must be positive, got %d", c.Feed.RadiusKm))
		}
		if _, _, err := c.FeedCenter(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("feed.type must be KISS, LINES or APRSIS, got %q", c.Feed.Type))
	}
	if c.Feed.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("feed.mininterval must not be negative, got %s", c.Feed.MinInterval))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// CenterPoint resolves map.center through the detector. ok is false when
// the value is empty or does not hold exactly one coordinate.
func (c Config) CenterPoint() (lat, lon float64, ok bool) {
	if c.Map.Center == "" {
		return 0, 0, false
	}
	res := coords.DetectAndAnnotate(c.Map.Center)
	if len(res.Points) != 1 {
		return 0, 0, false
	}
	return res.Points[0].Lat, res.Points[0].Lon, true
}

// FeedCenter is the center of the APRS-IS range filter: feed.locator when
// set, map.center otherwise.
func (c Config) FeedCenter() (lat, lon float64, err error) {
	if c.Feed.Locator != "" {
		lat, lon, err := aprs.LocatorCenter(c.Feed.Locator)
		if err != nil {
			return 0, 0, fmt.Errorf("feed.locator: %w", err)
		}
		return lat, lon, nil
	}
	if lat, lon, ok := c.CenterPoint(); ok {
		return lat, lon, nil
	}
	return 0, 0, fmt.Errorf("APRS-IS needs feed.locator or map.center for its range filter")
}

// LogLevel parses log.level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
