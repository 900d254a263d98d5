package docsync_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	docsync "github.com/goliatone/go-docsync"
	"github.com/goliatone/go-docsync/internal/store"
	"github.com/goliatone/go-docsync/pkg/testsupport"
)

func fixtureRemote() *testsupport.Remote {
	return testsupport.NewRemote(
		testsupport.Directory{Name: "3.methods", SHA: "m1", Files: map[string]string{
			"core/arguments/try-get-arg.md": "---\ndescription: Reads an argument.\nexample: |\n  CPH.TryGetArg(\"user\", out string user);\n---\n",
		}},
		testsupport.Directory{Name: ".parameters", SHA: "p1", Files: map[string]string{
			"name.yml": "name: argName\n",
		}},
	)
}

func TestModuleSyncThenLookup(t *testing.T) {
	cfg := docsync.DefaultConfig()
	cfg.Logging.Provider = "noop"

	module, err := docsync.New(cfg, docsync.WithRemote(fixtureRemote()), docsync.WithStore(store.NewMemory()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := module.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !result.Updated || result.Downloaded != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	m, err := module.Manifest(context.Background())
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if m.FileCount() != 2 {
		t.Fatalf("expected 2 cached files, got %d", m.FileCount())
	}

	entry, err := module.Lookup(context.Background(), docsync.Query{
		Identifier: "TryGetArg",
		Annotation: `[Category(new string[] { "Core", "Arguments" })]`,
	})
	if err != nil || entry == nil {
		t.Fatalf("expected entry, got %+v %v", entry, err)
	}
	if !strings.Contains(entry.Link, "/api/csharp/methods/core/arguments/try-get-arg") {
		t.Fatalf("unexpected link %q", entry.Link)
	}
	if !strings.Contains(entry.Compose(), "CPH.TryGetArg") {
		t.Fatalf("expected example in composed output, got %q", entry.Compose())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := docsync.DefaultConfig()
	cfg.Mirror.Concurrency = 0

	if _, err := docsync.New(cfg); !errors.Is(err, docsync.ErrConcurrencyInvalid) {
		t.Fatalf("expected ErrConcurrencyInvalid, got %v", err)
	}
}

func TestModuleExposesCommandsAndMetrics(t *testing.T) {
	cfg := docsync.DefaultConfig()
	cfg.Logging.Provider = "noop"
	cfg.Metrics.Enabled = true

	module, err := docsync.New(cfg, docsync.WithRemote(fixtureRemote()), docsync.WithStore(store.NewMemory()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if module.Commands() == nil || module.Commands().Sync == nil || module.Commands().Lookup == nil {
		t.Fatal("expected command handlers")
	}
	if module.Metrics() == nil {
		t.Fatal("expected metrics recorder")
	}
	if err := module.Commands().Sync.Execute(context.Background(), docsync.SyncMirrorCommand{Trigger: docsync.TriggerManual}); err != nil {
		t.Fatalf("sync command: %v", err)
	}
}
