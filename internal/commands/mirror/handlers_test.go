package mirrorcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docsync/internal/commands"
	"github.com/goliatone/go-docsync/internal/mirror"
	"github.com/goliatone/go-docsync/internal/reference"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

type stubSyncer struct {
	calls       int
	result      *mirror.Result
	err         error
	hasDeadline bool
}

func (s *stubSyncer) Sync(ctx context.Context) (*mirror.Result, error) {
	s.calls++
	_, s.hasDeadline = ctx.Deadline()
	return s.result, s.err
}

type stubLookuper struct {
	queries []reference.Query
	entry   *reference.Entry
	err     error
}

func (s *stubLookuper) Lookup(_ context.Context, q reference.Query) (*reference.Entry, error) {
	s.queries = append(s.queries, q)
	return s.entry, s.err
}

type captureLogger struct {
	fields       []map[string]any
	infoMessages []string
}

var _ interfaces.Logger = (*captureLogger)(nil)

func (c *captureLogger) Trace(string, ...any) {}
func (c *captureLogger) Debug(string, ...any) {}
func (c *captureLogger) Info(msg string, _ ...any) {
	c.infoMessages = append(c.infoMessages, msg)
}
func (c *captureLogger) Warn(string, ...any)  {}
func (c *captureLogger) Error(string, ...any) {}
func (c *captureLogger) Fatal(string, ...any) {}

func (c *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	c.fields = append(c.fields, copied)
	return c
}

func (c *captureLogger) WithContext(context.Context) interfaces.Logger {
	return c
}

func (c *captureLogger) hasInfo(msg string) bool {
	for _, m := range c.infoMessages {
		if m == msg {
			return true
		}
	}
	return false
}

func TestSyncMirrorHandlerDeliversResult(t *testing.T) {
	syncer := &stubSyncer{result: &mirror.Result{RunID: "run-1", Updated: true, Downloaded: 3}}
	logger := &captureLogger{}
	handler := NewSyncMirrorHandler(syncer, logger)

	var got *mirror.Result
	err := handler.Execute(context.Background(), SyncMirrorCommand{
		Trigger:  TriggerStartup,
		OnResult: func(r *mirror.Result) { got = r },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if syncer.calls != 1 || got != syncer.result {
		t.Fatalf("expected result delivered once, got %d calls and %+v", syncer.calls, got)
	}
	if !logger.hasInfo("mirror.command.sync.completed") {
		t.Fatalf("expected completion log, got %v", logger.infoMessages)
	}

	foundTrigger := false
	for _, fields := range logger.fields {
		if fields["trigger"] == TriggerStartup {
			foundTrigger = true
		}
	}
	if !foundTrigger {
		t.Fatalf("expected trigger field, got %#v", logger.fields)
	}
}

func TestSyncMirrorHandlerRunsWithoutDeadline(t *testing.T) {
	syncer := &stubSyncer{result: &mirror.Result{}}
	handler := NewSyncMirrorHandler(syncer, nil)

	if err := handler.Execute(context.Background(), SyncMirrorCommand{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if syncer.calls != 1 {
		t.Fatalf("expected one sync, got %d", syncer.calls)
	}
	if syncer.hasDeadline {
		t.Fatal("expected sync context without a deadline")
	}
}

func TestSyncMirrorHandlerTimeoutOption(t *testing.T) {
	syncer := &stubSyncer{result: &mirror.Result{}}
	handler := NewSyncMirrorHandler(syncer, nil, commands.WithTimeout[SyncMirrorCommand](time.Minute))

	if err := handler.Execute(context.Background(), SyncMirrorCommand{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !syncer.hasDeadline {
		t.Fatal("expected explicit timeout to set a deadline")
	}
}

func TestSyncMirrorHandlerKeepsTransportCode(t *testing.T) {
	transportErr := goerrors.Wrap(errors.New("down"), goerrors.CategoryExternal, "remote directory listing failed").
		WithTextCode(mirror.TextCodeTransport)
	handler := NewSyncMirrorHandler(&stubSyncer{err: transportErr}, nil)

	err := handler.Execute(context.Background(), SyncMirrorCommand{})
	if !mirror.IsTransportError(err) {
		t.Fatalf("expected transport error to pass through, got %v", err)
	}
}

func TestSyncMirrorHandlerWrapsPlainErrors(t *testing.T) {
	handler := NewSyncMirrorHandler(&stubSyncer{err: errors.New("boom")}, nil)

	err := handler.Execute(context.Background(), SyncMirrorCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestSyncMirrorHandlerRejectsInvalidTrigger(t *testing.T) {
	syncer := &stubSyncer{}
	handler := NewSyncMirrorHandler(syncer, nil)

	err := handler.Execute(context.Background(), SyncMirrorCommand{Trigger: "webhook"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if syncer.calls != 0 {
		t.Fatal("expected sync not to run")
	}
}

func TestLookupHandlerForwardsQuery(t *testing.T) {
	entry := &reference.Entry{Identifier: "TryGetArg", Markdown: "text"}
	service := &stubLookuper{entry: entry}
	handler := NewLookupHandler(service, nil)

	var got *reference.Entry
	err := handler.Execute(context.Background(), LookupCommand{
		Identifier: "TryGetArg",
		Annotation: `[Category(new string[] { "Core" })]`,
		HTML:       true,
		OnResult:   func(e *reference.Entry) { got = e },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != entry {
		t.Fatalf("expected entry delivered, got %+v", got)
	}
	want := reference.Query{Identifier: "TryGetArg", Annotation: `[Category(new string[] { "Core" })]`, HTML: true}
	if len(service.queries) != 1 || service.queries[0] != want {
		t.Fatalf("unexpected queries %+v", service.queries)
	}
}

func TestLookupHandlerRejectsInvalidIdentifier(t *testing.T) {
	service := &stubLookuper{}
	handler := NewLookupHandler(service, nil)

	err := handler.Execute(context.Background(), LookupCommand{Identifier: "../x"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.queries) != 0 {
		t.Fatal("expected lookup not to run")
	}
}

type recordingRegistry struct {
	Handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

func TestRegisterCommandsRegistersHandlers(t *testing.T) {
	reg := &recordingRegistry{}
	set, err := RegisterCommands(reg, &stubSyncer{}, &stubLookuper{}, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if set == nil || set.Sync == nil || set.Lookup == nil {
		t.Fatalf("expected handlers, got %#v", set)
	}
	if len(reg.Handlers) != 2 || reg.Handlers[0] != set.Sync || reg.Handlers[1] != set.Lookup {
		t.Fatalf("unexpected registrations %#v", reg.Handlers)
	}
}

func TestRegisterCommandsHandlerOptionsApplied(t *testing.T) {
	syncApplied, lookupApplied := false, false
	_, err := RegisterCommands(nil, &stubSyncer{}, &stubLookuper{}, nil,
		WithSyncHandlerOptions(func(*commands.Handler[SyncMirrorCommand]) { syncApplied = true }),
		WithLookupHandlerOptions(func(*commands.Handler[LookupCommand]) { lookupApplied = true }),
	)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !syncApplied || !lookupApplied {
		t.Fatalf("expected options applied, got sync=%v lookup=%v", syncApplied, lookupApplied)
	}
}

func TestRegisterCommandsErrors(t *testing.T) {
	if _, err := RegisterCommands(nil, nil, &stubLookuper{}, nil); !errors.Is(err, ErrSyncerRequired) {
		t.Fatalf("expected ErrSyncerRequired, got %v", err)
	}
	if _, err := RegisterCommands(nil, &stubSyncer{}, nil, nil); !errors.Is(err, ErrLookuperRequired) {
		t.Fatalf("expected ErrLookuperRequired, got %v", err)
	}
	regErr := errors.New("duplicate")
	if _, err := RegisterCommands(&recordingRegistry{err: regErr}, &stubSyncer{}, &stubLookuper{}, nil); !errors.Is(err, regErr) {
		t.Fatalf("expected registry error, got %v", err)
	}
}

func TestRegisterSyncCronRunsScheduledSync(t *testing.T) {
	syncer := &stubSyncer{result: &mirror.Result{}}
	handler := NewSyncMirrorHandler(syncer, nil)

	var job func() error
	var gotCfg command.HandlerConfig
	reg := func(cfg command.HandlerConfig, fn any) error {
		gotCfg = cfg
		job = fn.(func() error)
		return nil
	}

	cfg := command.HandlerConfig{Expression: "@every 1h"}
	if err := RegisterSyncCron(reg, handler, cfg); err != nil {
		t.Fatalf("register cron: %v", err)
	}
	if gotCfg.Expression != cfg.Expression || job == nil {
		t.Fatalf("expected job registered with config, got %+v", gotCfg)
	}
	if err := job(); err != nil {
		t.Fatalf("scheduled run: %v", err)
	}
	if syncer.calls != 1 {
		t.Fatalf("expected scheduled sync to run, got %d calls", syncer.calls)
	}
	if err := RegisterSyncCron(nil, handler, cfg); err != nil {
		t.Fatalf("expected nil registrar to be ignored, got %v", err)
	}
}
