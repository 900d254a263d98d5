// Package reference answers documentation lookups for method identifiers
// against the local mirror.
package reference

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-docsync/internal/docs"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/lookup"
	"github.com/goliatone/go-docsync/internal/markdown"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	// DefaultMethodsDir is the mirrored directory searched for method pages.
	DefaultMethodsDir = "3.methods"

	linkLabel    = "Open Documentation in Browser"
	exampleLabel = "Example:"
	exampleLang  = "csharp"
)

// ErrIdentifierRequired is returned for a blank lookup identifier.
var ErrIdentifierRequired = errors.New("reference: identifier is required")

// Query names the method to document. Annotation is the category attribute
// line preceding the method definition; it only feeds the browser link.
type Query struct {
	Identifier string
	Annotation string
	HTML       bool
}

// Entry is the display-ready documentation for one method.
type Entry struct {
	Identifier string
	// Path is the mirrored document, relative to the store root. Empty when
	// only a link could be built.
	Path string
	// Markdown is the rewritten description and body.
	Markdown string
	Example  string
	Link     string
	// HTML is the rendered Compose output, filled when the query asks for it.
	HTML string
}

// Compose joins the description, browser link and example into one Markdown
// document.
func (e *Entry) Compose() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Markdown)
	if e.Link != "" {
		b.WriteString("\n\n[" + linkLabel + "](" + e.Link + ")")
	}
	if e.Example != "" {
		b.WriteString("\n\n" + exampleLabel + "  \n```" + exampleLang + "\n")
		b.WriteString(strings.TrimRight(e.Example, "\n"))
		b.WriteString("\n```")
	}
	return strings.TrimLeft(b.String(), "\n")
}

// Renderer turns Markdown into HTML.
type Renderer interface {
	Parse(markdown []byte) ([]byte, error)
}

// Config locates the mirrored methods and the public documentation site.
type Config struct {
	MethodsDir string
	BaseURL    string
	URLPrefix  string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger injects the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

// WithRenderer sets the HTML renderer used for Query.HTML.
func WithRenderer(renderer Renderer) Option {
	return func(s *Service) {
		s.renderer = renderer
	}
}

// WithPipeline replaces the rewrite rules applied to document text.
func WithPipeline(pipeline markdown.Pipeline) Option {
	return func(s *Service) {
		s.pipeline = pipeline
	}
}

// Service resolves identifiers to mirrored documents.
type Service struct {
	store    interfaces.FileStore
	loader   *docs.Loader
	cfg      Config
	pipeline markdown.Pipeline
	renderer Renderer
	logger   interfaces.Logger
}

// NewService builds a lookup service over the mirror.
func NewService(store interfaces.FileStore, loader *docs.Loader, cfg Config, opts ...Option) *Service {
	cfg.MethodsDir = strings.Trim(strings.TrimSpace(cfg.MethodsDir), "/")
	if cfg.MethodsDir == "" {
		cfg.MethodsDir = DefaultMethodsDir
	}
	s := &Service{
		store:    store,
		loader:   loader,
		cfg:      cfg,
		pipeline: markdown.DefaultPipeline(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup finds the document for q.Identifier. It returns a nil entry when
// neither a document nor a link is available, or when the document's
// structured data is malformed.
func (s *Service) Lookup(ctx context.Context, q Query) (*Entry, error) {
	identifier := strings.TrimSpace(q.Identifier)
	if identifier == "" {
		return nil, ErrIdentifierRequired
	}
	fileName := lookup.ToDocCasing(identifier)
	logger := logging.WithFields(s.logger.WithContext(ctx), map[string]any{
		"identifier": identifier,
		"file":       fileName,
	})

	link := s.link(logger, q.Annotation, fileName)

	found, err := s.find(ctx, fileName)
	if err != nil {
		return nil, err
	}
	if found == "" {
		logger.Debug("reference.lookup.not_found")
		if link == "" {
			return nil, nil
		}
		return s.finish(&Entry{Identifier: identifier, Link: link}, q.HTML)
	}

	record, err := s.loader.Load(ctx, found)
	if err != nil {
		if docs.IsParseError(err) {
			logger.Warn("reference.lookup.parse_failed", "path", found, "error", err)
			return nil, nil
		}
		return nil, err
	}
	if record == nil {
		logger.Debug("reference.lookup.no_record", "path", found)
		return nil, nil
	}

	text := record.Description + "\n"
	if record.Body != "" {
		text += record.Body
	}
	entry := &Entry{
		Identifier: identifier,
		Path:       found,
		Markdown:   s.pipeline.Apply(text),
		Example:    record.Example,
		Link:       link,
	}
	return s.finish(entry, q.HTML)
}

// find returns the first mirrored document matching fileName at any depth of
// the methods directory.
func (s *Service) find(ctx context.Context, fileName string) (string, error) {
	for rel, err := range s.store.ListFiles(ctx, lookup.SearchPattern(fileName), s.cfg.MethodsDir) {
		if err != nil {
			return "", fmt.Errorf("reference: search %s: %w", fileName, err)
		}
		return path.Join(s.cfg.MethodsDir, rel), nil
	}
	return "", nil
}

func (s *Service) link(logger interfaces.Logger, annotation, fileName string) string {
	tokens := lookup.ParseCategoryAnnotation(annotation)
	if len(tokens) == 0 || strings.TrimSpace(s.cfg.BaseURL) == "" {
		return ""
	}
	link, irregular, err := lookup.DocLink(s.cfg.BaseURL, s.cfg.URLPrefix, tokens, fileName)
	if err != nil {
		logger.Warn("reference.link.invalid", "error", err)
		return ""
	}
	if irregular {
		logger.Info("reference.link.irregular_path", "tokens", tokens, "link", link)
	}
	return link
}

func (s *Service) finish(entry *Entry, withHTML bool) (*Entry, error) {
	if !withHTML || s.renderer == nil {
		return entry, nil
	}
	html, err := s.renderer.Parse([]byte(entry.Compose()))
	if err != nil {
		return nil, fmt.Errorf("reference: render %s: %w", entry.Identifier, err)
	}
	entry.HTML = string(html)
	return entry, nil
}
