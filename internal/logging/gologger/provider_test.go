package gologger

import (
	"context"
	"testing"

	"github.com/goliatone/go-docsync/pkg/interfaces"
	glog "github.com/goliatone/go-logger/glog"
)

func withFields(t *testing.T, logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	t.Helper()
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		t.Fatalf("expected %T to implement interfaces.FieldsLogger", logger)
	}
	return fl.WithFields(fields)
}

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("docsync.mirror")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := withFields(t, logger, map[string]any{"module": "docsync.mirror"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}
	child.Debug("adapter.initialised")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	logger := p.GetLogger("docsync")
	if logger == nil {
		t.Fatal("expected no-op logger from nil provider")
	}
	logger.Info("dropped")
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"directory": "3.methods"}
	if child := withFields(t, adapted, fields); child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["directory"] = ".parameters"
	if len(stub.fields) != 1 || stub.fields[0]["directory"] != "3.methods" {
		t.Fatalf("expected fields to be cloned, got %#v", stub.fields)
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

func TestAdapterCarriesFieldsForPlainLoggers(t *testing.T) {
	plain := &plainLogger{}
	logger := withFields(t, withFields(t, wrap(plain),
		map[string]any{"run_id": "r1", "directory": "3.methods"}),
		map[string]any{"path": "3.methods/a.md"})

	logger.Info("mirror.sync.file_written", "bytes", 12)

	want := []any{"directory", "3.methods", "run_id", "r1", "path", "3.methods/a.md", "bytes", 12}
	if len(plain.args) != len(want) {
		t.Fatalf("expected %d args, got %#v", len(want), plain.args)
	}
	for i := range want {
		if plain.args[i] != want[i] {
			t.Fatalf("arg %d: expected %v, got %v (%#v)", i, want[i], plain.args[i], plain.args)
		}
	}
}

func TestNewProviderFormats(t *testing.T) {
	for _, format := range []string{"", "JSON", " pretty "} {
		if _, err := NewProvider(Config{Format: format, AddSource: true}); err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
	}
}

func TestNormalizeLevel(t *testing.T) {
	cases := []struct{ input, want string }{
		{"", ""},
		{"WARNING", glog.Warn},
		{" info ", glog.Info},
		{"verbose", ""},
	}
	for _, tc := range cases {
		if got := normalizeLevel(tc.input); got != tc.want {
			t.Fatalf("normalizeLevel(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}

type plainLogger struct {
	args []any
}

var _ glog.Logger = (*plainLogger)(nil)

func (p *plainLogger) Trace(string, ...any)       {}
func (p *plainLogger) Debug(string, ...any)       {}
func (p *plainLogger) Info(_ string, args ...any) { p.args = args }
func (p *plainLogger) Warn(string, ...any)        {}
func (p *plainLogger) Error(string, ...any)       {}
func (p *plainLogger) Fatal(string, ...any)       {}

func (p *plainLogger) WithContext(context.Context) glog.Logger { return p }
