// Package docsync mirrors a hosted documentation tree to local disk and
// serves rewritten method documentation from the mirror.
package docsync

import (
	"context"

	mirrorcmd "github.com/goliatone/go-docsync/internal/commands/mirror"
	"github.com/goliatone/go-docsync/internal/di"
	"github.com/goliatone/go-docsync/internal/manifest"
	"github.com/goliatone/go-docsync/internal/metrics"
	"github.com/goliatone/go-docsync/internal/mirror"
	"github.com/goliatone/go-docsync/internal/reference"
)

// SyncResult exports the outcome of one mirror run.
type SyncResult = mirror.Result

// Query exports the lookup request.
type Query = reference.Query

// Entry exports the display-ready documentation for one method.
type Entry = reference.Entry

// Manifest exports the persisted record of mirrored directories.
type Manifest = manifest.Manifest

// Commands exports the command handlers built by the module.
type Commands = mirrorcmd.HandlerSet

// SyncMirrorCommand exports the message that triggers a mirror run.
type SyncMirrorCommand = mirrorcmd.SyncMirrorCommand

// LookupCommand exports the message that resolves method documentation.
type LookupCommand = mirrorcmd.LookupCommand

// Sync triggers recorded on SyncMirrorCommand.
const (
	TriggerManual    = mirrorcmd.TriggerManual
	TriggerStartup   = mirrorcmd.TriggerStartup
	TriggerScheduled = mirrorcmd.TriggerScheduled
)

// Option overrides a collaborator of the module.
type Option = di.Option

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithRemote          = di.WithRemote
	WithStore           = di.WithStore
	WithHTTPClient      = di.WithHTTPClient
	WithMetrics         = di.WithMetrics
	WithCommandRegistry = di.WithCommandRegistry
)

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Sync brings the local mirror up to date with the remote tree.
func (m *Module) Sync(ctx context.Context) (*SyncResult, error) {
	return m.container.Engine().Sync(ctx)
}

// Lookup returns the documentation for a method, or nil when none exists.
func (m *Module) Lookup(ctx context.Context, q Query) (*Entry, error) {
	return m.container.Reference().Lookup(ctx, q)
}

// Manifest reads the persisted manifest from the mirror.
func (m *Module) Manifest(ctx context.Context) (Manifest, error) {
	return m.container.Engine().Manifest(ctx)
}

// Commands returns the sync and lookup command handlers.
func (m *Module) Commands() *Commands {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Commands()
}

// Metrics returns the Prometheus recorder, or nil when metrics are disabled.
func (m *Module) Metrics() *metrics.Recorder {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Metrics()
}
