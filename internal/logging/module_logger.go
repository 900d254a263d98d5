package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	rootModule      = "docsync"
	mirrorModule    = "docsync.mirror"
	docsModule      = "docsync.docs"
	referenceModule = "docsync.reference"
	remoteModule    = "docsync.remote"
)

const (
	fieldDirectory = "directory"
	fieldPath      = "path"
	fieldAction    = "sync_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MirrorLogger returns the logger namespace reserved for the sync engine.
func MirrorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mirrorModule)
}

// DocsLogger returns the logger namespace reserved for document loading.
func DocsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, docsModule)
}

// ReferenceLogger returns the logger namespace reserved for documentation lookups.
func ReferenceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, referenceModule)
}

// RemoteLogger returns the logger namespace reserved for the remote API client.
func RemoteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, remoteModule)
}

// WithMirrorContext enriches logger with the directory, file path and sync
// action being processed. Empty values are ignored.
func WithMirrorContext(logger interfaces.Logger, directory, path, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(directory); trimmed != "" {
		fields[fieldDirectory] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPath] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
