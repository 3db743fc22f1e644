package coords

import (
	"fmt"
	"io"
	"log/slog"
)

// Result is the outcome of one apply.
type Result struct {
	// Normalized is the text every offset refers to.
	Normalized string
	// Annotated is Normalized with each point's span replaced by its
	// highlighted canonical text.
	Annotated string
	Points    []Point
	Rejected  []Rejection
}

// Candidates returns how many pattern matches were considered, accepted or
// not.
func (r Result) Candidates() int {
	return len(r.Points) + len(r.Rejected)
}

// Summary is the one-line notification for a result.
func (r Result) Summary() string {
	s := fmt.Sprintf("Created %d marker(s), candidates scanned: %d", len(r.Points), r.Candidates())
	if n := len(r.Rejected); n > 0 {
		s += fmt.Sprintf(", rejected: %d", n)
	}
	return s
}

// Detector finds coordinates in text. It is immutable after New and holds no
// state between calls.
type Detector struct {
	palette   []string
	highlight Highlighter
	log       *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithPalette sets the marker colors. An empty palette keeps the default.
func WithPalette(colors []string) Option {
	return func(d *Detector) {
		if len(colors) > 0 {
			d.palette = append([]string(nil), colors...)
		}
	}
}

// WithHighlighter sets how accepted spans are rendered in Result.Annotated.
func WithHighlighter(h Highlighter) Option {
	return func(d *Detector) {
		if h != nil {
			d.highlight = h
		}
	}
}

// WithLogger sets the logger rejected candidates are reported to at debug
// level.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

func New(opts ...Option) *Detector {
	d := &Detector{
		palette:   DefaultPalette,
		highlight: HTMLMark,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect normalizes raw, finds every coordinate in it and annotates the
// normalized text. It never fails: undecodable candidates end up in
// Result.Rejected.
func (d *Detector) Detect(raw string) Result {
	normalized := Normalize(raw)
	points, rejected := resolve(normalized, matchers, d.palette)

	for _, r := range rejected {
		d.log.Debug("candidate rejected",
			"kind", r.Kind.String(),
			"text", r.Text,
			"start", r.Start,
			"error", r.Err)
	}
	d.log.Debug("detection complete",
		"accepted", len(points),
		"rejected", len(rejected),
		"runes", len([]rune(normalized)))

	return Result{
		Normalized: normalized,
		Annotated:  Annotate(normalized, points, d.highlight),
		Points:     points,
		Rejected:   rejected,
	}
}

var defaultDetector = New()

// DetectAndAnnotate runs Detect with the default palette and HTML marks.
func DetectAndAnnotate(raw string) Result {
	return defaultDetector.Detect(raw)
}
