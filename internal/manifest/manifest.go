// Package manifest holds the persisted record of what the mirror has
// synchronised: per watched directory, the directory hash and the hash of
// every file downloaded under it.
package manifest

// CachedFile is one successfully synchronised file. Path is relative to its
// directory.
type CachedFile struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
}

// CachedDirectory records the hash a watched directory had when its file list
// was last reconciled.
type CachedDirectory struct {
	Path  string       `json:"path"`
	SHA   string       `json:"sha"`
	Files []CachedFile `json:"files"`
}

// Manifest is the ordered set of cached directories, unique by Path.
type Manifest []CachedDirectory

// Find returns the entry for the named directory.
func (m Manifest) Find(name string) (CachedDirectory, bool) {
	for _, dir := range m {
		if dir.Path == name {
			return dir, true
		}
	}
	return CachedDirectory{}, false
}

// FileCount returns the number of tracked files across all directories.
func (m Manifest) FileCount() int {
	total := 0
	for _, dir := range m {
		total += len(dir.Files)
	}
	return total
}

// FileHashes indexes the directory's files by path.
func (d CachedDirectory) FileHashes() map[string]string {
	out := make(map[string]string, len(d.Files))
	for _, f := range d.Files {
		out[f.Path] = f.SHA
	}
	return out
}

// WithoutFiles returns a copy of m in which the named directory no longer
// lists any of paths. Other directories are shared with m.
func (m Manifest) WithoutFiles(name string, paths []string) Manifest {
	if len(paths) == 0 {
		return m
	}
	drop := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		drop[p] = struct{}{}
	}

	out := make(Manifest, len(m))
	for i, dir := range m {
		if dir.Path != name {
			out[i] = dir
			continue
		}
		kept := make([]CachedFile, 0, len(dir.Files))
		for _, f := range dir.Files {
			if _, ok := drop[f.Path]; ok {
				continue
			}
			kept = append(kept, f)
		}
		out[i] = CachedDirectory{Path: dir.Path, SHA: dir.SHA, Files: kept}
	}
	return out
}

// Merge builds the manifest that replaces previous after a sync. Directories
// present in results take the new hash and keep any previous file whose path
// the new entry does not list. Directories only present in previous are
// carried forward verbatim. Results come first in their given order, followed
// by previous-only directories in their previous order. Neither input is
// modified.
func Merge(results []CachedDirectory, previous Manifest) Manifest {
	merged := make(Manifest, 0, len(results)+len(previous))
	seen := make(map[string]struct{}, len(results))

	for _, result := range results {
		if _, dup := seen[result.Path]; dup {
			continue
		}
		seen[result.Path] = struct{}{}

		entry := CachedDirectory{
			Path:  result.Path,
			SHA:   result.SHA,
			Files: dedupeFiles(result.Files),
		}
		if prev, ok := previous.Find(result.Path); ok {
			listed := make(map[string]struct{}, len(entry.Files))
			for _, f := range entry.Files {
				listed[f.Path] = struct{}{}
			}
			for _, f := range prev.Files {
				if _, ok := listed[f.Path]; ok {
					continue
				}
				listed[f.Path] = struct{}{}
				entry.Files = append(entry.Files, f)
			}
		}
		merged = append(merged, entry)
	}

	for _, prev := range previous {
		if _, ok := seen[prev.Path]; ok {
			continue
		}
		seen[prev.Path] = struct{}{}
		merged = append(merged, CachedDirectory{
			Path:  prev.Path,
			SHA:   prev.SHA,
			Files: append([]CachedFile(nil), prev.Files...),
		})
	}
	return merged
}

// dedupeFiles copies files keeping the first entry per path.
func dedupeFiles(files []CachedFile) []CachedFile {
	out := make([]CachedFile, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if _, ok := seen[f.Path]; ok {
			continue
		}
		seen[f.Path] = struct{}{}
		out = append(out, f)
	}
	return out
}
