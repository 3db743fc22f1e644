package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"gridmark/coords"
)

func newTestTools(t *testing.T) *Tools {
	t.Helper()
	tools, err := NewTools(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewTools error: %v", err)
	}
	return tools
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil {
		t.Fatal("nil result")
	}
	for _, content := range res.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func TestHandleDetectCoordinates(t *testing.T) {
	tools := newTestTools(t)
	req := callRequest("detect_coordinates", map[string]any{
		"text": "Точка: 50.4472, 30.5233 and 95, 1",
	})

	res, err := tools.HandleDetectCoordinates(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var out DetectResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(out.Points) != 1 {
		t.Fatalf("points = %+v", out.Points)
	}
	p := out.Points[0]
	if p.Start != 7 || p.Length != 16 || p.Canonical != "50.447200, 30.523300" {
		t.Errorf("point = %+v", p)
	}
	if len(out.Rejected) != 1 || out.Rejected[0].Text != "95, 1" || out.Rejected[0].Reason == "" {
		t.Errorf("rejected = %+v", out.Rejected)
	}
	if !strings.HasPrefix(out.Summary, "Created 1 marker(s), candidates scanned: 2") {
		t.Errorf("summary = %q", out.Summary)
	}

	// kinds are written by name
	if !strings.Contains(resultText(t, res), `"kind":"DecimalLatLon"`) {
		t.Errorf("kind not named in %s", resultText(t, res))
	}
}

func TestHandleDetectCoordinatesEmpty(t *testing.T) {
	tools := newTestTools(t)
	res, err := tools.HandleDetectCoordinates(context.Background(), callRequest("detect_coordinates", map[string]any{"text": "  "}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("empty text accepted")
	}
}

func TestHandleAnnotateText(t *testing.T) {
	tests := []struct {
		name    string
		style   string
		want    string
		wantErr bool
	}{
		{
			name: "default html",
			want: `<mark style="background-color: #e6194b; opacity: 0.6; padding: 2px;">50.447200, 30.523300</mark>`,
		},
		{
			name:  "plain",
			style: "plain",
			want:  "at 50.447200, 30.523300 now",
		},
		{
			name:  "upper case style",
			style: "PLAIN",
			want:  "at 50.447200, 30.523300 now",
		},
		{
			name:    "unknown style",
			style:   "markdown",
			wantErr: true,
		},
	}

	tools := newTestTools(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{"text": "at 50.4472 30.5233 now"}
			if tt.style != "" {
				args["style"] = tt.style
			}
			res, err := tools.HandleAnnotateText(context.Background(), callRequest("annotate_text", args))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if res.IsError != tt.wantErr {
				t.Fatalf("IsError = %v: %s", res.IsError, resultText(t, res))
			}
			if !tt.wantErr && !strings.Contains(resultText(t, res), tt.want) {
				t.Errorf("got %q, want it to contain %q", resultText(t, res), tt.want)
			}
		})
	}
}

func TestDetectMemo(t *testing.T) {
	tools := newTestTools(t)
	first, err := tools.detect(StylePlain, "x5320000 y7411000")
	if err != nil {
		t.Fatal(err)
	}
	if tools.cache.Len() != 1 {
		t.Errorf("cache len = %d, want 1", tools.cache.Len())
	}
	second, _ := tools.detect(StylePlain, "x5320000 y7411000")
	if second.Annotated != first.Annotated || len(second.Points) != 1 {
		t.Errorf("memo result differs: %+v", second)
	}

	// Same text, other style, is a separate entry.
	tools.detect(StyleHTML, "x5320000 y7411000")
	if tools.cache.Len() != 2 {
		t.Errorf("cache len = %d, want 2", tools.cache.Len())
	}
}

func TestNewServer(t *testing.T) {
	s, err := NewServer([]string{"#ff0000"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if s == nil || s.srv == nil {
		t.Fatal("NewServer() returned nil server")
	}
}

func TestPaletteOption(t *testing.T) {
	tools, err := NewTools(slog.New(slog.NewTextHandler(io.Discard, nil)), coords.WithPalette([]string{"#123456"}))
	if err != nil {
		t.Fatal(err)
	}
	res, _ := tools.detect(StyleHTML, "1.5, 2.5")
	if len(res.Points) != 1 || res.Points[0].Color != "#123456" {
		t.Errorf("points = %+v", res.Points)
	}
}
