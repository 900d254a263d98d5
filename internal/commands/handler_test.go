package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

type testMessage struct{}

func (testMessage) Type() string { return "docsync.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "docsync.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerTimeoutCarriesTextCode(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		<-ctx.Done()
		return ctx.Err()
	}, WithTimeout[testMessage](time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if got := TextCode(err); got != commandContextTimeout {
		t.Fatalf("expected %s, got %q (%v)", commandContextTimeout, got, err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	domainErr := goerrors.Wrap(errors.New("listing failed"), goerrors.CategoryExternal, "remote down").
		WithTextCode("REMOTE_TRANSPORT_FAILED")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return domainErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if got := TextCode(err); got != "REMOTE_TRANSPORT_FAILED" {
		t.Fatalf("expected domain text code to survive, got %q", got)
	}
	if TextCode(errors.New("plain")) != "" {
		t.Fatal("expected no text code for plain errors")
	}
}

type fieldsLogger struct {
	fields map[string]any
}

var _ interfaces.Logger = (*fieldsLogger)(nil)

func (l *fieldsLogger) Trace(string, ...any) {}
func (l *fieldsLogger) Debug(string, ...any) {}
func (l *fieldsLogger) Info(string, ...any)  {}
func (l *fieldsLogger) Warn(string, ...any)  {}
func (l *fieldsLogger) Error(string, ...any) {}
func (l *fieldsLogger) Fatal(string, ...any) {}

func (l *fieldsLogger) WithFields(fields map[string]any) interfaces.Logger {
	if l.fields == nil {
		l.fields = map[string]any{}
	}
	for k, v := range fields {
		l.fields[k] = v
	}
	return l
}

func (l *fieldsLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

func TestHandlerReportsTelemetryWithMessageFields(t *testing.T) {
	logger := &fieldsLogger{}
	var infos []TelemetryInfo
	record := func(_ context.Context, _ testMessage, info TelemetryInfo) {
		infos = append(infos, info)
	}

	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithLogger[testMessage](logger),
		WithOperation[testMessage]("test.operation"),
		WithMessageFields[testMessage](func(testMessage) map[string]any {
			return map[string]any{"directory": "3.methods"}
		}),
		WithTelemetry[testMessage](JoinTelemetry[testMessage](record, nil, DefaultTelemetry[testMessage](logger))),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected one telemetry call, got %d", len(infos))
	}
	info := infos[0]
	if info.Status != TelemetryStatusSuccess || info.Command != "docsync.test.message" || info.Operation != "test.operation" {
		t.Fatalf("unexpected telemetry info %+v", info)
	}
	if info.Fields["directory"] != "3.methods" {
		t.Fatalf("expected message fields in telemetry, got %#v", info.Fields)
	}
	if logger.fields["directory"] != "3.methods" || logger.fields["operation"] != "test.operation" {
		t.Fatalf("expected fields on logger, got %#v", logger.fields)
	}
}

func TestHandlerReportsFailureTelemetry(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	}, WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
		status = info.Status
	}))

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected error")
	}
	if status != TelemetryStatusFailed {
		t.Fatalf("expected failed status, got %q", status)
	}
}
