package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// RenderOptions tunes HTML rendering.
type RenderOptions struct {
	// Extensions names goldmark extensions to enable. Empty selects GFM,
	// linkify and task lists.
	Extensions []string
	HardWraps  bool
	// SafeMode suppresses raw HTML in the output.
	SafeMode bool
}

// GoldmarkParser renders rewritten documentation Markdown into HTML. It holds
// no per-call state and can be shared.
type GoldmarkParser struct {
	defaults RenderOptions
	pipeline Pipeline
}

// NewGoldmarkParser constructs a parser that runs DefaultPipeline before
// rendering.
func NewGoldmarkParser(defaults RenderOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaults: defaults,
		pipeline: DefaultPipeline(),
	}
}

// WithPipeline replaces the rewrite rules applied before rendering. A nil
// pipeline renders the source unchanged.
func (p *GoldmarkParser) WithPipeline(pipeline Pipeline) *GoldmarkParser {
	clone := *p
	clone.pipeline = pipeline
	return &clone
}

// Parse rewrites and renders markdown with the parser defaults.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaults)
}

// ParseWithOptions rewrites and renders markdown with opts.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts RenderOptions) ([]byte, error) {
	source := markdown
	if len(p.pipeline) > 0 {
		source = []byte(p.pipeline.Apply(string(markdown)))
	}

	var buf bytes.Buffer
	if err := newGoldmarkEngine(opts).Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

func newGoldmarkEngine(opts RenderOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	// Bodies carry <br> and &nbsp; produced by NormalizeReturns.
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		if ext, ok := extensionRegistry[key]; ok {
			extenders = append(extenders, ext)
			seen[key] = struct{}{}
		}
	}
	return extenders
}
