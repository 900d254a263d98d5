package mirrorcmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsync/internal/commands"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/mirror"
	"github.com/goliatone/go-docsync/internal/reference"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	syncOperation   = "mirror.sync"
	lookupOperation = "reference.lookup"
)

// Syncer runs mirror syncs. *mirror.Engine satisfies it.
type Syncer interface {
	Sync(ctx context.Context) (*mirror.Result, error)
}

// Lookuper resolves documentation entries. *reference.Service satisfies it.
type Lookuper interface {
	Lookup(ctx context.Context, q reference.Query) (*reference.Entry, error)
}

var (
	_ command.Commander[SyncMirrorCommand] = (*SyncMirrorHandler)(nil)
	_ command.Commander[LookupCommand]     = (*LookupHandler)(nil)
)

// SyncMirrorHandler runs the mirror through the shared command handler.
type SyncMirrorHandler struct {
	inner *commands.Handler[SyncMirrorCommand]
}

// NewSyncMirrorHandler creates a handler bound to syncer. Unlike the other
// handlers it runs without a deadline unless opts add one.
func NewSyncMirrorHandler(syncer Syncer, logger interfaces.Logger, opts ...commands.HandlerOption[SyncMirrorCommand]) *SyncMirrorHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg SyncMirrorCommand) error {
		result, err := syncer.Sync(ctx)
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"run_id":     result.RunID,
				"updated":    result.Updated,
				"downloaded": result.Downloaded,
				"deleted":    result.Deleted,
				"failed":     result.Failed,
			}).Info("mirror.command.sync.completed")
		}
		if msg.OnResult != nil {
			msg.OnResult(result)
		}
		return nil
	}

	// A sync is not cancelled mid-run; per-request timeouts belong to the remote client.
	handlerOpts := []commands.HandlerOption[SyncMirrorCommand]{
		commands.WithTimeout[SyncMirrorCommand](0),
		commands.WithLogger[SyncMirrorCommand](baseLogger),
		commands.WithOperation[SyncMirrorCommand](syncOperation),
		commands.WithMessageFields[SyncMirrorCommand](func(msg SyncMirrorCommand) map[string]any {
			trigger := msg.Trigger
			if trigger == "" {
				trigger = TriggerManual
			}
			return map[string]any{"trigger": trigger}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncMirrorCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncMirrorHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncMirrorCommand].
func (h *SyncMirrorHandler) Execute(ctx context.Context, msg SyncMirrorCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LookupHandler answers documentation lookups through the shared command handler.
type LookupHandler struct {
	inner *commands.Handler[LookupCommand]
}

// NewLookupHandler creates a handler bound to service.
func NewLookupHandler(service Lookuper, logger interfaces.Logger, opts ...commands.HandlerOption[LookupCommand]) *LookupHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg LookupCommand) error {
		entry, err := service.Lookup(ctx, reference.Query{
			Identifier: msg.Identifier,
			Annotation: msg.Annotation,
			HTML:       msg.HTML,
		})
		if err != nil {
			return err
		}
		if msg.OnResult != nil {
			msg.OnResult(entry)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LookupCommand]{
		commands.WithLogger[LookupCommand](baseLogger),
		commands.WithOperation[LookupCommand](lookupOperation),
		commands.WithMessageFields[LookupCommand](func(msg LookupCommand) map[string]any {
			fields := map[string]any{"identifier": msg.Identifier}
			if msg.HTML {
				fields["html"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[LookupCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LookupHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LookupCommand].
func (h *LookupHandler) Execute(ctx context.Context, msg LookupCommand) error {
	return h.inner.Execute(ctx, msg)
}
