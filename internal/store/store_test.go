package store

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

func TestStoreWriteAndReadText(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if err := s.WriteFile(ctx, "3.methods/core/get-user.md", []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := s.ReadText(ctx, "3.methods/core/get-user.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
}

func TestStoreReadTextMissingFile(t *testing.T) {
	_, err := NewMemory().ReadText(context.Background(), "missing.yml")
	if !errors.Is(err, interfaces.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	if err := s.WriteFile(ctx, "a.md", []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.DeleteFile(ctx, "a.md"); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}
	if ok, _ := afero.Exists(s.Fs(), "a.md"); ok {
		t.Fatal("expected file to be removed")
	}
}

func TestStoreRejectsBlankPath(t *testing.T) {
	if err := NewMemory().WriteFile(context.Background(), "  ", nil); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestStoreListFilesMatchesAtAnyDepth(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	files := []string{
		"3.methods/get-user.md",
		"3.methods/core/arguments/get-arg.yml",
		"3.methods/core/arguments/get-arg.txt",
		"3.methods/core/other.md",
		".parameters/get-arg.yml",
	}
	for _, f := range files {
		if err := s.WriteFile(ctx, f, []byte("x")); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}

	cases := []struct {
		pattern string
		want    []string
	}{
		{pattern: "**/get-arg.{yml,md}", want: []string{"core/arguments/get-arg.yml"}},
		{pattern: "**/get-user.{yml,md}", want: []string{"get-user.md"}},
		{pattern: "**/*.md", want: []string{"core/other.md", "get-user.md"}},
	}
	for _, tc := range cases {
		var got []string
		for p, err := range s.ListFiles(ctx, tc.pattern, "3.methods") {
			if err != nil {
				t.Fatalf("%s: list: %v", tc.pattern, err)
			}
			got = append(got, p)
		}
		slices.Sort(got)
		if !slices.Equal(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.pattern, tc.want, got)
		}
	}
}

func TestStoreListFilesStopsEarly(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	for _, f := range []string{"d/a.md", "d/b.md", "d/c.md"} {
		if err := s.WriteFile(ctx, f, []byte("x")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	count := 0
	for _, err := range s.ListFiles(ctx, "**/*.md", "d") {
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected a single yielded path, got %d", count)
	}
}

func TestStoreListFilesMissingBaseDir(t *testing.T) {
	for p, err := range NewMemory().ListFiles(context.Background(), "**/*.md", "nope") {
		t.Fatalf("expected no entries, got %q (%v)", p, err)
	}
}
