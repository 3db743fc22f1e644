package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gridmark/coords"
)

// cacheSize bounds how many distinct (style, text) results are remembered.
const cacheSize = 256

const (
	StyleHTML  = "html"
	StylePlain = "plain"
)

// Tools holds the detectors behind the MCP tools and a memo of recent
// results. Detection is pure, so a repeated request is served from the memo.
type Tools struct {
	logger    *slog.Logger
	detectors map[string]*coords.Detector
	cache     *lru.Cache[string, coords.Result]
}

// NewTools builds one detector per output style from opts.
func NewTools(logger *slog.Logger, opts ...coords.Option) (*Tools, error) {
	cache, err := lru.New[string, coords.Result](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	html := append(opts[:len(opts):len(opts)], coords.WithHighlighter(coords.HTMLMark))
	plain := append(opts[:len(opts):len(opts)], coords.WithHighlighter(coords.Plain))
	return &Tools{
		logger: logger,
		detectors: map[string]*coords.Detector{
			StyleHTML:  coords.New(html...),
			StylePlain: coords.New(plain...),
		},
		cache: cache,
	}, nil
}

// Register adds every tool to srv.
func (t *Tools) Register(srv *server.MCPServer) {
	srv.AddTool(DetectCoordinatesTool(), t.HandleDetectCoordinates)
	srv.AddTool(AnnotateTextTool(), t.HandleAnnotateText)
}

func (t *Tools) detect(style, text string) (coords.Result, error) {
	d, ok := t.detectors[style]
	if !ok {
		return coords.Result{}, fmt.Errorf("unknown style %q, want %s or %s", style, StyleHTML, StylePlain)
	}
	key := style + "\x00" + text
	if res, ok := t.cache.Get(key); ok {
		return res, nil
	}
	res := d.Detect(text)
	t.cache.Add(key, res)
	t.logger.Debug("detected coordinates",
		"style", style,
		"points", len(res.Points),
		"rejected", len(res.Rejected))
	return res, nil
}

// DetectCoordinatesTool returns the tool definition for detect_coordinates.
func DetectCoordinatesTool() mcp.Tool {
	return mcp.NewTool("detect_coordinates",
		mcp.WithDescription("Find MGRS, decimal lat/lon and SK-42 coordinates in text and convert them to WGS84"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Free-form text that may contain coordinates"),
		),
	)
}

// RejectedCandidate is a scanned match that was not accepted.
type RejectedCandidate struct {
	Kind   coords.Kind `json:"kind"`
	Start  int         `json:"start"`
	Length int         `json:"length"`
	Text   string      `json:"text"`
	Reason string      `json:"reason"`
}

// DetectResult is the JSON body returned by detect_coordinates.
type DetectResult struct {
	Summary    string              `json:"summary"`
	Normalized string              `json:"normalized_text"`
	Points     []coords.Point      `json:"points"`
	Rejected   []RejectedCandidate `json:"rejected,omitempty"`
}

// HandleDetectCoordinates implements detect_coordinates.
func (t *Tools) HandleDetectCoordinates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := mcp.ParseString(req, "text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text must not be empty"), nil
	}

	res, err := t.detect(StylePlain, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := DetectResult{
		Summary:    res.Summary(),
		Normalized: res.Normalized,
		Points:     res.Points,
	}
	if out.Points == nil {
		out.Points = []coords.Point{}
	}
	for _, r := range res.Rejected {
		out.Rejected = append(out.Rejected, RejectedCandidate{
			Kind:   r.Kind,
			Start:  r.Start,
			Length: r.Length,
			Text:   r.Text,
			Reason: r.Err.Error(),
		})
	}

	body, err := json.Marshal(out)
	if err != nil {
		t.logger.Error("failed to marshal result", "error", err)
		return mcp.NewToolResultError("failed to encode result"), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// AnnotateTextTool returns the tool definition for annotate_text.
func AnnotateTextTool() mcp.Tool {
	return mcp.NewTool("annotate_text",
		mcp.WithDescription("Rewrite text with every detected coordinate replaced by its canonical form"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Free-form text that may contain coordinates"),
		),
		mcp.WithString("style",
			mcp.Description("Output style: html wraps each coordinate in a colored <mark>, plain writes the canonical text only"),
			mcp.DefaultString(StyleHTML),
		),
	)
}

// HandleAnnotateText implements annotate_text.
func (t *Tools) HandleAnnotateText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := mcp.ParseString(req, "text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text must not be empty"), nil
	}
	style := strings.ToLower(mcp.ParseString(req, "style", StyleHTML))

	res, err := t.detect(style, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(res.Annotated + "\n\n" + res.Summary()), nil
}
