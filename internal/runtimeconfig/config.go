package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

var ErrRemoteContentsURLInvalid = errors.New("docsync config: remote contents url must be an absolute http(s) url")
var ErrRemoteTreesURLInvalid = errors.New("docsync config: remote trees url must be an absolute http(s) url")
var ErrRemoteRawURLInvalid = errors.New("docsync config: remote raw base url must be an absolute http(s) url")

// ErrMirrorDirRequired indicates the local mirror root is missing.
var ErrMirrorDirRequired = errors.New("docsync config: mirror directory is required")
var ErrManifestFileRequired = errors.New("docsync config: manifest file name is required")
var ErrWatchedDirectoriesRequired = errors.New("docsync config: at least one watched directory is required")

// ErrMethodsDirNotWatched guards lookups against a methods directory the sync never fills.
var ErrMethodsDirNotWatched = errors.New("docsync config: methods directory must be watched")
var ErrParametersDirNotWatched = errors.New("docsync config: parameters directory must be watched")
var ErrExtensionsRequired = errors.New("docsync config: at least one document extension is required")
var ErrConcurrencyInvalid = errors.New("docsync config: download concurrency must be positive")
var ErrDocsBaseURLInvalid = errors.New("docsync config: docs base url must be an absolute http(s) url")
var ErrLoggingProviderUnknown = errors.New("docsync config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("docsync config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("docsync config: logging format is invalid")

// Config aggregates the settings of a documentation mirror.
type Config struct {
	Remote  RemoteConfig  `mapstructure:"remote"`
	Mirror  MirrorConfig  `mapstructure:"mirror"`
	Docs    DocsConfig    `mapstructure:"docs"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// RemoteConfig locates the hosted documentation repository.
type RemoteConfig struct {
	ContentsURL string        `mapstructure:"contents_url"`
	TreesURL    string        `mapstructure:"trees_url"`
	RawBaseURL  string        `mapstructure:"raw_base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// MirrorConfig captures where and what the sync engine mirrors.
type MirrorConfig struct {
	Dir           string   `mapstructure:"dir"`
	ManifestFile  string   `mapstructure:"manifest_file"`
	Watched       []string `mapstructure:"watched"`
	MethodsDir    string   `mapstructure:"methods_dir"`
	ParametersDir string   `mapstructure:"parameters_dir"`
	Extensions    []string `mapstructure:"extensions"`
	Concurrency   int      `mapstructure:"concurrency"`
}

// DocsConfig builds browsable documentation links.
type DocsConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string `mapstructure:"provider"`
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// MetricsConfig toggles Prometheus collection for sync runs.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultConfig returns the settings for the Streamer.bot C# method docs.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			ContentsURL: "https://api.github.com/repos/Streamerbot/docs/contents/streamerbot/3.api/3.csharp",
			TreesURL:    "https://api.github.com/repos/Streamerbot/docs/git/trees",
			RawBaseURL:  "https://raw.githubusercontent.com/Streamerbot/docs/main/streamerbot/3.api/3.csharp",
			Timeout:     30 * time.Second,
			UserAgent:   "go-docsync",
		},
		Mirror: MirrorConfig{
			Dir:           "csharp-docs",
			ManifestFile:  "cacheInfo.json",
			Watched:       []string{"3.methods", ".parameters"},
			MethodsDir:    "3.methods",
			ParametersDir: ".parameters",
			Extensions:    []string{".md", ".yml"},
			Concurrency:   8,
		},
		Docs: DocsConfig{
			BaseURL:   "https://docs.streamer.bot",
			URLPrefix: "api/csharp/methods",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !isHTTPURL(cfg.Remote.ContentsURL) {
		return ErrRemoteContentsURLInvalid
	}
	if !isHTTPURL(cfg.Remote.TreesURL) {
		return ErrRemoteTreesURLInvalid
	}
	if !isHTTPURL(cfg.Remote.RawBaseURL) {
		return ErrRemoteRawURLInvalid
	}
	if strings.TrimSpace(cfg.Mirror.Dir) == "" {
		return ErrMirrorDirRequired
	}
	if strings.TrimSpace(cfg.Mirror.ManifestFile) == "" {
		return ErrManifestFileRequired
	}
	if len(cfg.Mirror.Watched) == 0 {
		return ErrWatchedDirectoriesRequired
	}
	if !slices.Contains(cfg.Mirror.Watched, cfg.Mirror.MethodsDir) {
		return fmt.Errorf("%w: %q", ErrMethodsDirNotWatched, cfg.Mirror.MethodsDir)
	}
	if !slices.Contains(cfg.Mirror.Watched, cfg.Mirror.ParametersDir) {
		return fmt.Errorf("%w: %q", ErrParametersDirNotWatched, cfg.Mirror.ParametersDir)
	}
	if len(cfg.Mirror.Extensions) == 0 {
		return ErrExtensionsRequired
	}
	if cfg.Mirror.Concurrency <= 0 {
		return fmt.Errorf("%w: %d", ErrConcurrencyInvalid, cfg.Mirror.Concurrency)
	}
	if !isHTTPURL(cfg.Docs.BaseURL) {
		return ErrDocsBaseURLInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
