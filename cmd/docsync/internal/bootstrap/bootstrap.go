package bootstrap

import (
	"fmt"
	"strings"

	docsync "github.com/goliatone/go-docsync"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DOCSYNC_MIRROR_DIR.
const EnvPrefix = "DOCSYNC"

// Options captures configuration for CLI bootstraps.
type Options struct {
	// ConfigFile is an optional YAML, JSON or TOML file.
	ConfigFile     string
	Dir            string
	LogLevel       string
	LogFormat      string
	Metrics        bool
	LoggerProvider interfaces.LoggerProvider
	ModuleOptions  []docsync.Option
}

// Module wraps the docsync module and the CLI logger.
type Module struct {
	Module *docsync.Module
	Logger interfaces.Logger
}

// LoadConfig layers the config file, DOCSYNC_* environment variables and
// explicit options over the defaults.
func LoadConfig(v *viper.Viper, opts Options) (docsync.Config, error) {
	if v == nil {
		v = viper.New()
	}
	cfg := docsync.DefaultConfig()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := strings.TrimSpace(opts.ConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		cfg.Mirror.Dir = dir
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}
	if opts.Metrics {
		cfg.Metrics.Enabled = true
	}
	return cfg, nil
}

// BuildModule loads the configuration and constructs a docsync module.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(viper.New(), opts)
	if err != nil {
		return nil, err
	}

	moduleOpts := append([]docsync.Option{}, opts.ModuleOptions...)
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, docsync.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := docsync.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise docsync module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "docsync.cli"),
	}, nil
}

func setDefaults(v *viper.Viper, cfg docsync.Config) {
	v.SetDefault("remote.contents_url", cfg.Remote.ContentsURL)
	v.SetDefault("remote.trees_url", cfg.Remote.TreesURL)
	v.SetDefault("remote.raw_base_url", cfg.Remote.RawBaseURL)
	v.SetDefault("remote.timeout", cfg.Remote.Timeout)
	v.SetDefault("remote.user_agent", cfg.Remote.UserAgent)

	v.SetDefault("mirror.dir", cfg.Mirror.Dir)
	v.SetDefault("mirror.manifest_file", cfg.Mirror.ManifestFile)
	v.SetDefault("mirror.watched", cfg.Mirror.Watched)
	v.SetDefault("mirror.methods_dir", cfg.Mirror.MethodsDir)
	v.SetDefault("mirror.parameters_dir", cfg.Mirror.ParametersDir)
	v.SetDefault("mirror.extensions", cfg.Mirror.Extensions)
	v.SetDefault("mirror.concurrency", cfg.Mirror.Concurrency)

	v.SetDefault("docs.base_url", cfg.Docs.BaseURL)
	v.SetDefault("docs.url_prefix", cfg.Docs.URLPrefix)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
}
