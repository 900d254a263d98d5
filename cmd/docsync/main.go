package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/spf13/cobra"

	docsync "github.com/goliatone/go-docsync"
	"github.com/goliatone/go-docsync/cmd/docsync/internal/bootstrap"
	"github.com/goliatone/go-docsync/internal/commands"
	mirrorcmd "github.com/goliatone/go-docsync/internal/commands/mirror"
)

var moduleBuilder = bootstrap.BuildModule

var errMetricsDisabled = errors.New("metrics recorder not configured")

type globalFlags struct {
	configFile string
	dir        string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		if code := commands.TextCode(err); code != "" {
			log.Fatalf("docsync: [%s] %v", code, err)
		}
		log.Fatalf("docsync: %v", err)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "docsync",
		Short:         "Mirror hosted method documentation and look entries up locally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Path to a config file (yaml, json or toml)")
	pf.StringVar(&flags.dir, "dir", "", "Local mirror directory")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (json, console, pretty)")

	root.AddCommand(
		newSyncCommand(flags),
		newWatchCommand(flags),
		newLookupCommand(flags),
		newManifestCommand(flags),
	)
	return root
}

func (f *globalFlags) build(metrics bool) (*bootstrap.Module, error) {
	module, err := moduleBuilder(bootstrap.Options{
		ConfigFile: f.configFile,
		Dir:        f.dir,
		LogLevel:   f.logLevel,
		LogFormat:  f.logFormat,
		Metrics:    metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Module == nil {
		return nil, fmt.Errorf("docsync module not configured")
	}
	return module, nil
}

func newSyncCommand(flags *globalFlags) *cobra.Command {
	var metricsFile string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Bring the local mirror up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := flags.build(metricsFile != "")
			if err != nil {
				return err
			}

			var result *docsync.SyncResult
			err = module.Module.Commands().Sync.Execute(cmd.Context(), docsync.SyncMirrorCommand{
				Trigger:  docsync.TriggerManual,
				OnResult: func(r *docsync.SyncResult) { result = r },
			})
			if err != nil {
				return fmt.Errorf("execute sync command: %w", err)
			}
			printSyncResult(cmd.OutOrStdout(), result)

			if metricsFile != "" {
				recorder := module.Module.Metrics()
				if recorder == nil {
					return errMetricsDisabled
				}
				if err := recorder.WriteTextfile(metricsFile); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format after the run")
	return cmd
}

func newWatchCommand(flags *globalFlags) *cobra.Command {
	var (
		every       time.Duration
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync on startup and then on a fixed interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if every <= 0 {
				return fmt.Errorf("--every must be positive")
			}
			module, err := flags.build(metricsAddr != "")
			if err != nil {
				return err
			}
			handler := module.Module.Commands().Sync

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scheduler := newIntervalScheduler(module.Logger)
			cronCfg := command.HandlerConfig{Expression: "@every " + every.String()}
			if err := mirrorcmd.RegisterSyncCron(scheduler.Register, handler, cronCfg); err != nil {
				return fmt.Errorf("register sync schedule: %w", err)
			}

			if metricsAddr != "" {
				server := &http.Server{Addr: metricsAddr, Handler: metricsMux(module.Module)}
				go func() {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						module.Logger.Error("cli.metrics.serve_failed", "addr", metricsAddr, "error", err)
					}
				}()
				defer server.Shutdown(context.Background())
			}

			err = handler.Execute(ctx, docsync.SyncMirrorCommand{
				Trigger:  docsync.TriggerStartup,
				OnResult: func(r *docsync.SyncResult) { printSyncResult(cmd.OutOrStdout(), r) },
			})
			if err != nil {
				module.Logger.Error("cli.sync.startup_failed", "error", err)
			}
			return scheduler.Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&every, "every", time.Hour, "Interval between scheduled syncs")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}

func newLookupCommand(flags *globalFlags) *cobra.Command {
	var (
		annotation string
		html       bool
	)
	cmd := &cobra.Command{
		Use:   "lookup <Identifier>",
		Short: "Print the documentation of a method from the mirror",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := flags.build(false)
			if err != nil {
				return err
			}

			var entry *docsync.Entry
			err = module.Module.Commands().Lookup.Execute(cmd.Context(), docsync.LookupCommand{
				Identifier: args[0],
				Annotation: annotation,
				HTML:       html,
				OnResult:   func(e *docsync.Entry) { entry = e },
			})
			if err != nil {
				return fmt.Errorf("execute lookup command: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case entry == nil:
				fmt.Fprintf(out, "no documentation found for %s\n", args[0])
			case html:
				fmt.Fprint(out, entry.HTML)
			default:
				fmt.Fprintln(out, entry.Compose())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&annotation, "annotation", "", "Category annotation line preceding the method, used for the browser link")
	cmd.Flags().BoolVar(&html, "html", false, "Render the entry as HTML")
	return cmd
}

func newManifestCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Print the cached manifest as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := flags.build(false)
			if err != nil {
				return err
			}
			m, err := module.Module.Manifest(cmd.Context())
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}
}

func printSyncResult(out io.Writer, result *docsync.SyncResult) {
	if result == nil {
		return
	}
	fmt.Fprintf(out, "run %s: updated=%t downloaded=%d deleted=%d failed=%d skipped=%d reconciled=%d\n",
		result.RunID, result.Updated, result.Downloaded, result.Deleted, result.Failed,
		result.SkippedDirectories, result.ReconciledDirectories)
}

func metricsMux(module *docsync.Module) http.Handler {
	mux := http.NewServeMux()
	if recorder := module.Metrics(); recorder != nil {
		mux.Handle("/metrics", recorder.Handler())
	}
	return mux
}
