package testsupport

import (
	"context"
	"testing"
)

func TestRemoteServesDirectories(t *testing.T) {
	r := NewRemote(Directory{Name: "3.methods", SHA: "d1", Files: map[string]string{
		"b.md":      "B",
		"core/a.md": "A",
	}})
	ctx := context.Background()

	listing, _ := r.FetchTopLevelListing(ctx)
	if len(listing) != 1 || listing[0].SHA != "d1" {
		t.Fatalf("unexpected listing %+v", listing)
	}

	tree, _ := r.FetchRecursiveTree(ctx, "d1")
	if len(tree) != 2 || tree[0].Path != "b.md" || tree[1].SHA != BlobSHA("A") {
		t.Fatalf("unexpected tree %+v", tree)
	}

	if data, ok := r.FetchRawFile(ctx, "3.methods/core/a.md"); !ok || string(data) != "A" {
		t.Fatalf("expected file content, got %q %v", data, ok)
	}
	if _, ok := r.FetchRawFile(ctx, "core/a.md"); ok {
		t.Fatal("expected a miss without directory prefix")
	}
	if r.RawRequests() != 2 {
		t.Fatalf("expected 2 raw requests, got %d", r.RawRequests())
	}

	r.Set(Directory{Name: "3.methods", SHA: "d2"})
	if tree, _ := r.FetchRecursiveTree(ctx, "d1"); tree != nil {
		t.Fatalf("expected replaced directory, got %+v", tree)
	}
}
