package mirrorcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsync/internal/commands"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

var (
	// ErrSyncerRequired is returned when registration has no sync engine.
	ErrSyncerRequired = errors.New("mirror command registration: syncer is nil")
	// ErrLookuperRequired is returned when registration has no lookup service.
	ErrLookuperRequired = errors.New("mirror command registration: lookup service is nil")
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the handlers built by RegisterCommands.
type HandlerSet struct {
	Sync   *SyncMirrorHandler
	Lookup *LookupHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	syncHandlerOpts   []commands.HandlerOption[SyncMirrorCommand]
	lookupHandlerOpts []commands.HandlerOption[LookupCommand]
}

// WithSyncHandlerOptions forwards options to the SyncMirrorHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncMirrorCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// WithLookupHandlerOptions forwards options to the LookupHandler constructor.
func WithLookupHandlerOptions(opts ...commands.HandlerOption[LookupCommand]) Option {
	return func(cfg *options) {
		cfg.lookupHandlerOpts = append(cfg.lookupHandlerOpts, opts...)
	}
}

// RegisterCommands builds the mirror and lookup handlers and registers them
// with reg when it is non-nil.
func RegisterCommands(reg CommandRegistry, syncer Syncer, service Lookuper, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if syncer == nil {
		return nil, ErrSyncerRequired
	}
	if service == nil {
		return nil, ErrLookuperRequired
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	set := &HandlerSet{
		Sync:   NewSyncMirrorHandler(syncer, commands.CommandLogger(provider, "mirror"), cfg.syncHandlerOpts...),
		Lookup: NewLookupHandler(service, commands.CommandLogger(provider, "reference"), cfg.lookupHandlerOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Sync); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Lookup); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// RegisterSyncCron schedules the sync handler through reg. Scheduled runs use
// a background context and the scheduled trigger.
func RegisterSyncCron(reg CronRegistrar, handler *SyncMirrorHandler, cfg command.HandlerConfig) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), SyncMirrorCommand{Trigger: TriggerScheduled})
	})
}
