// Package testsupport provides an in-memory documentation remote for tests
// that exercise the module end to end.
package testsupport

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// Directory is one top-level directory of the fake remote. Files maps paths
// relative to the directory to their content.
type Directory struct {
	Name  string
	SHA   string
	Files map[string]string
}

// Remote implements interfaces.RemoteClient from fixed directories.
type Remote struct {
	mu   sync.Mutex
	dirs []Directory
	raw  int
}

var _ interfaces.RemoteClient = (*Remote)(nil)

// NewRemote returns a remote listing dirs in order.
func NewRemote(dirs ...Directory) *Remote {
	return &Remote{dirs: dirs}
}

// Set replaces or appends a directory.
func (r *Remote) Set(dir Directory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.dirs {
		if r.dirs[i].Name == dir.Name {
			r.dirs[i] = dir
			return
		}
	}
	r.dirs = append(r.dirs, dir)
}

// RawRequests reports how many files were downloaded.
func (r *Remote) RawRequests() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.raw
}

func (r *Remote) FetchTopLevelListing(context.Context) ([]interfaces.RemoteEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]interfaces.RemoteEntry, 0, len(r.dirs))
	for _, dir := range r.dirs {
		entries = append(entries, interfaces.RemoteEntry{Name: dir.Name, SHA: dir.SHA, Kind: interfaces.EntryKindTree})
	}
	return entries, nil
}

func (r *Remote) FetchRecursiveTree(_ context.Context, sha string) ([]interfaces.RemoteTreeItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dir := range r.dirs {
		if dir.SHA != sha {
			continue
		}
		paths := make([]string, 0, len(dir.Files))
		for p := range dir.Files {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		items := make([]interfaces.RemoteTreeItem, 0, len(paths))
		for _, p := range paths {
			items = append(items, interfaces.RemoteTreeItem{Path: p, Kind: interfaces.EntryKindBlob, SHA: BlobSHA(dir.Files[p])})
		}
		return items, nil
	}
	return nil, nil
}

func (r *Remote) FetchRawFile(_ context.Context, p string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw++
	for _, dir := range r.dirs {
		rel, found := strings.CutPrefix(p, dir.Name+"/")
		if !found {
			continue
		}
		if content, ok := dir.Files[rel]; ok {
			return []byte(content), true
		}
	}
	return nil, false
}

// BlobSHA derives the hash the fake remote reports for content.
func BlobSHA(content string) string {
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
