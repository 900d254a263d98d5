package markdown

import (
	"strings"
	"testing"
)

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(RenderOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_RewritesBeforeRendering(t *testing.T) {
	parser := NewGoldmarkParser(RenderOptions{})

	html, err := parser.Parse([]byte("Press :kbd{value=\"meta\"} to copy."))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "<code>CTRL</code>") {
		t.Fatalf("expected keyboard shortcode to render as code, got %q", string(html))
	}
}

func TestGoldmarkParser_WithoutPipeline(t *testing.T) {
	parser := NewGoldmarkParser(RenderOptions{}).WithPipeline(nil)

	html, err := parser.Parse([]byte(":kbd{value=\"a\"}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), ":kbd{value=") {
		t.Fatalf("expected source to pass through untouched, got %q", string(html))
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(RenderOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), RenderOptions{HardWraps: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_SafeModeDropsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(RenderOptions{SafeMode: true})

	html, err := parser.Parse([]byte("<b>bold</b>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(html), "<b>bold</b>") {
		t.Fatalf("expected raw HTML to be omitted, got %q", string(html))
	}
}
