package di

import (
	"fmt"
	"net/http"
	"strings"

	mirrorcmd "github.com/goliatone/go-docsync/internal/commands/mirror"
	"github.com/goliatone/go-docsync/internal/docs"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/logging/gologger"
	"github.com/goliatone/go-docsync/internal/markdown"
	"github.com/goliatone/go-docsync/internal/metrics"
	"github.com/goliatone/go-docsync/internal/mirror"
	"github.com/goliatone/go-docsync/internal/reference"
	"github.com/goliatone/go-docsync/internal/remote/github"
	"github.com/goliatone/go-docsync/internal/runtimeconfig"
	"github.com/goliatone/go-docsync/internal/store"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// Container wires the mirror, the document loader and the lookup service
// from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	remote         interfaces.RemoteClient
	store          interfaces.FileStore
	httpClient     *http.Client
	metrics        *metrics.Recorder
	registry       mirrorcmd.CommandRegistry

	engine    *mirror.Engine
	loader    *docs.Loader
	renderer  *markdown.GoldmarkParser
	reference *reference.Service
	commands  *mirrorcmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithRemote replaces the GitHub client.
func WithRemote(remote interfaces.RemoteClient) Option {
	return func(c *Container) {
		if remote != nil {
			c.remote = remote
		}
	}
}

// WithStore replaces the on-disk store rooted at Config.Mirror.Dir.
func WithStore(fs interfaces.FileStore) Option {
	return func(c *Container) {
		if fs != nil {
			c.store = fs
		}
	}
}

// WithHTTPClient sets the HTTP client used by the default GitHub client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithMetrics injects a recorder, enabling metrics regardless of
// Config.Metrics.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(c *Container) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithCommandRegistry registers the command handlers with reg.
func WithCommandRegistry(reg mirrorcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if c.store == nil {
		c.store = store.NewOS(cfg.Mirror.Dir)
	}
	if c.remote == nil {
		c.remote = github.New(github.Config{
			ContentsURL: cfg.Remote.ContentsURL,
			TreesURL:    cfg.Remote.TreesURL,
			RawBaseURL:  cfg.Remote.RawBaseURL,
			Timeout:     cfg.Remote.Timeout,
			UserAgent:   cfg.Remote.UserAgent,
			HTTPClient:  c.httpClient,
		}, logging.RemoteLogger(c.loggerProvider))
	}
	if c.metrics == nil && cfg.Metrics.Enabled {
		c.metrics = metrics.New()
	}

	engineOpts := []mirror.Option{
		mirror.WithManifestPath(cfg.Mirror.ManifestFile),
		mirror.WithWatched(cfg.Mirror.Watched...),
		mirror.WithExtensions(cfg.Mirror.Extensions...),
		mirror.WithConcurrency(cfg.Mirror.Concurrency),
		mirror.WithLogger(logging.MirrorLogger(c.loggerProvider)),
	}
	if c.metrics != nil {
		engineOpts = append(engineOpts, mirror.WithMetrics(c.metrics))
	}
	engine, err := mirror.New(c.remote, c.store, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("di: mirror engine: %w", err)
	}
	c.engine = engine

	c.loader = docs.NewLoader(c.store, docs.LoaderConfig{ImportDir: cfg.Mirror.ParametersDir}, logging.DocsLogger(c.loggerProvider))
	c.renderer = markdown.NewGoldmarkParser(markdown.RenderOptions{}).WithPipeline(nil)
	c.reference = reference.NewService(c.store, c.loader, reference.Config{
		MethodsDir: cfg.Mirror.MethodsDir,
		BaseURL:    cfg.Docs.BaseURL,
		URLPrefix:  cfg.Docs.URLPrefix,
	},
		reference.WithLogger(logging.ReferenceLogger(c.loggerProvider)),
		reference.WithRenderer(c.renderer),
	)

	set, err := mirrorcmd.RegisterCommands(c.registry, c.engine, c.reference, c.loggerProvider)
	if err != nil {
		return nil, fmt.Errorf("di: register commands: %w", err)
	}
	c.commands = set
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "", "noop":
		c.loggerProvider = noopProvider{}
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, c.Config.Logging.Provider)
	}
	return nil
}

// LoggerProvider returns the provider used for every module logger.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Store returns the mirror file store.
func (c *Container) Store() interfaces.FileStore { return c.store }

// Remote returns the remote documentation client.
func (c *Container) Remote() interfaces.RemoteClient { return c.remote }

// Metrics returns the recorder, or nil when metrics are disabled.
func (c *Container) Metrics() *metrics.Recorder { return c.metrics }

// Engine returns the sync engine.
func (c *Container) Engine() *mirror.Engine { return c.engine }

// Loader returns the document loader.
func (c *Container) Loader() *docs.Loader { return c.loader }

// Reference returns the lookup service.
func (c *Container) Reference() *reference.Service { return c.reference }

// Commands returns the command handlers.
func (c *Container) Commands() *mirrorcmd.HandlerSet { return c.commands }

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
