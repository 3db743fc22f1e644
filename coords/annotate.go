package coords

import "fmt"

// Highlighter renders the replacement for one accepted point.
type Highlighter func(Point) string

// HTMLMark wraps the canonical text in a translucent <mark> of the point's
// color.
func HTMLMark(p Point) string {
	return fmt.Sprintf(`<mark style="background-color: %s; opacity: 0.6; padding: 2px;">%s</mark>`, p.Color, p.Canonical)
}

// Plain replaces each span with its canonical text and nothing else.
func Plain(p Point) string {
	return p.Canonical
}

// Annotate splices h(p) over each point's span of normalized. Points must be
// sorted by Start and must not overlap, which is what Detect returns; each
// splice then starts at or after the end of the previous replacement.
// Spans that fall outside the text are skipped.
func Annotate(normalized string, points []Point, h Highlighter) string {
	if h == nil {
		h = HTMLMark
	}
	if len(points) == 0 {
		return normalized
	}

	out := []rune(normalized)
	offset := 0
	for _, p := range points {
		start := p.Start + offset
		end := start + p.Length
		if start < 0 || p.Length < 0 || end > len(out) {
			continue
		}
		repl := []rune(h(p))
		out = append(out[:start], append(repl, out[end:]...)...)
		offset += len(repl) - p.Length
	}
	return string(out)
}
