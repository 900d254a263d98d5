package interfaces

import "context"

// EntryKind distinguishes files from directories in remote listings.
type EntryKind string

const (
	// EntryKindBlob marks a file entry.
	EntryKindBlob EntryKind = "blob"
	// EntryKindTree marks a directory entry.
	EntryKindTree EntryKind = "tree"
)

// RemoteEntry is one item of the top-level directory listing. SHA is the
// content-derived hash of the entry; for directories equality implies the
// listing underneath is unchanged.
type RemoteEntry struct {
	Name string
	SHA  string
	Kind EntryKind
}

// RemoteTreeItem is one item of a recursive tree listing. Path is relative to
// the directory the tree was requested for.
type RemoteTreeItem struct {
	Path string
	Kind EntryKind
	SHA  string
}

// RemoteClient is the read-only view of the hosted documentation tree the
// mirror consumes. Listing calls fail with a transport error on any
// non-success response; FetchRawFile reports a single-file miss through its
// boolean instead of an error so callers can skip the file.
type RemoteClient interface {
	FetchTopLevelListing(ctx context.Context) ([]RemoteEntry, error)
	FetchRecursiveTree(ctx context.Context, sha string) ([]RemoteTreeItem, error)
	FetchRawFile(ctx context.Context, path string) ([]byte, bool)
}
