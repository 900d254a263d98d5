// Package mirror keeps a local copy of the watched directories of a remote
// documentation tree. Directory and file hashes recorded in the manifest
// decide what is fetched, so an unchanged remote costs one listing request.
package mirror

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/manifest"
	"github.com/goliatone/go-docsync/internal/metrics"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	// DefaultManifestPath is the manifest location relative to the store root.
	DefaultManifestPath = "cacheInfo.json"
	// DefaultConcurrency bounds parallel downloads inside one directory.
	DefaultConcurrency = 8

	// TextCodeManifestWrite tags a manifest that could not be persisted.
	TextCodeManifestWrite = "MANIFEST_WRITE_FAILED"
)

// DefaultWatched lists the directories mirrored when none are configured.
func DefaultWatched() []string {
	return []string{"3.methods", ".parameters"}
}

// DefaultExtensions lists the document extensions kept from a tree listing.
func DefaultExtensions() []string {
	return []string{".md", ".yml"}
}

// Metrics receives sync outcomes. *metrics.Recorder satisfies it.
type Metrics interface {
	ObserveSync(outcome string, duration time.Duration)
	ObserveFile(directory, result string)
	ObserveDirectory(directory, result string)
}

// IDGenerator produces run identifiers.
type IDGenerator func() uuid.UUID

// Result summarises one sync run.
type Result struct {
	RunID string
	// Updated is true when at least one file was downloaded or deleted.
	Updated               bool
	Downloaded            int
	Deleted               int
	Failed                int
	SkippedDirectories    int
	ReconciledDirectories int
	// Manifest is the manifest as persisted at the end of the run.
	Manifest manifest.Manifest
}

// Option configures an Engine.
type Option func(*Engine)

// WithManifestPath overrides where the manifest lives inside the store.
func WithManifestPath(p string) Option {
	return func(e *Engine) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			e.manifestPath = trimmed
		}
	}
}

// WithWatched replaces the set of mirrored top-level directories.
func WithWatched(names ...string) Option {
	return func(e *Engine) {
		watched := make(map[string]struct{}, len(names))
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				watched[name] = struct{}{}
			}
		}
		if len(watched) > 0 {
			e.watched = watched
		}
	}
}

// WithExtensions replaces the document extensions kept from tree listings.
func WithExtensions(exts ...string) Option {
	return func(e *Engine) {
		set := extensionSet(exts)
		if len(set) > 0 {
			e.extensions = set
		}
	}
}

// WithConcurrency bounds parallel downloads per directory.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger injects the engine logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.Ensure(logger)
	}
}

// WithMetrics injects the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithIDGenerator overrides the run identifier source.
func WithIDGenerator(generator IDGenerator) Option {
	return func(e *Engine) {
		if generator != nil {
			e.id = generator
		}
	}
}

// WithClock overrides the clock used for run durations.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// Engine mirrors the watched directories of a remote tree into a file store.
// Sync calls are serialised.
type Engine struct {
	mu sync.Mutex

	remote       interfaces.RemoteClient
	store        interfaces.FileStore
	manifestPath string
	watched      map[string]struct{}
	extensions   map[string]struct{}
	concurrency  int
	logger       interfaces.Logger
	metrics      Metrics
	id           IDGenerator
	now          func() time.Time
}

// New constructs an engine over the given remote and store.
func New(remote interfaces.RemoteClient, store interfaces.FileStore, opts ...Option) (*Engine, error) {
	if remote == nil {
		return nil, ErrRemoteRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	e := &Engine{
		remote:       remote,
		store:        store,
		manifestPath: DefaultManifestPath,
		concurrency:  DefaultConcurrency,
		extensions:   extensionSet(DefaultExtensions()),
		logger:       logging.NoOp(),
		metrics:      noopMetrics{},
		id:           uuid.New,
		now:          time.Now,
	}
	WithWatched(DefaultWatched()...)(e)

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ManifestPath returns the manifest location inside the store.
func (e *Engine) ManifestPath() string {
	return e.manifestPath
}

// Manifest loads the currently persisted manifest. A missing manifest is
// empty.
func (e *Engine) Manifest(ctx context.Context) (manifest.Manifest, error) {
	return manifest.Load(ctx, e.store, e.manifestPath)
}

// Sync reconciles every watched directory whose remote hash differs from the
// manifest and persists the merged manifest. It fails only when the top-level
// listing cannot be fetched or the manifest cannot be written; everything
// below that is logged and isolated to the file or directory involved.
func (e *Engine) Sync(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := e.now()
	result := &Result{RunID: e.id().String()}
	logger := logging.WithFields(e.logger.WithContext(ctx), map[string]any{"run_id": result.RunID})
	logger.Debug("mirror.sync.start")

	previous, err := manifest.Load(ctx, e.store, e.manifestPath)
	if err != nil {
		logger.Warn("mirror.manifest.discarded", "path", e.manifestPath, "error", err)
		previous = manifest.Manifest{}
	}

	listing, err := e.remote.FetchTopLevelListing(ctx)
	if err != nil {
		err = transportError(err, "remote directory listing failed")
		logger.Error("mirror.sync.failed", "error", err)
		e.metrics.ObserveSync(metrics.OutcomeFailed, e.now().Sub(start))
		return nil, err
	}

	var pending []interfaces.RemoteEntry
	for _, entry := range listing {
		if _, ok := e.watched[entry.Name]; !ok {
			continue
		}
		if cached, ok := previous.Find(entry.Name); ok && cached.SHA == entry.SHA {
			result.SkippedDirectories++
			e.metrics.ObserveDirectory(entry.Name, metrics.DirectorySkipped)
			logging.WithMirrorContext(logger, entry.Name, "", "skip").Debug("mirror.directory.unchanged", "sha", entry.SHA)
			continue
		}
		pending = append(pending, entry)
	}

	outcomes := make([]directoryOutcome, len(pending))
	var group errgroup.Group
	for i, entry := range pending {
		cached, _ := previous.Find(entry.Name)
		group.Go(func() error {
			outcomes[i] = e.reconcile(ctx, logger, entry, cached)
			return nil
		})
	}
	_ = group.Wait()

	results := make([]manifest.CachedDirectory, 0, len(outcomes))
	base := previous
	for _, outcome := range outcomes {
		if !outcome.ok {
			continue
		}
		result.ReconciledDirectories++
		result.Downloaded += outcome.downloaded
		result.Deleted += outcome.deleted
		result.Failed += outcome.failed
		results = append(results, outcome.directory)
		base = base.WithoutFiles(outcome.directory.Path, outcome.dropped)
	}
	result.Updated = result.Downloaded > 0 || result.Deleted > 0

	// Paths the run dropped must not be resurrected from the previous entry.
	merged := manifest.Merge(results, base)
	result.Manifest = merged

	if result.Updated || result.ReconciledDirectories > 0 {
		if err := manifest.Save(ctx, e.store, e.manifestPath, merged); err != nil {
			err = goerrors.Wrap(err, goerrors.CategoryOperation, "manifest could not be written").
				WithTextCode(TextCodeManifestWrite)
			logger.Error("mirror.manifest.write_failed", "path", e.manifestPath, "error", err)
			e.metrics.ObserveSync(metrics.OutcomeFailed, e.now().Sub(start))
			return nil, err
		}
	}

	outcome := metrics.OutcomeUnchanged
	if result.Updated {
		outcome = metrics.OutcomeUpdated
	}
	e.metrics.ObserveSync(outcome, e.now().Sub(start))
	logger.Info("mirror.sync.completed",
		"updated", result.Updated,
		"downloaded", result.Downloaded,
		"deleted", result.Deleted,
		"failed", result.Failed,
		"skipped_directories", result.SkippedDirectories,
		"reconciled_directories", result.ReconciledDirectories,
	)
	return result, nil
}

type directoryOutcome struct {
	ok         bool
	directory  manifest.CachedDirectory
	dropped    []string
	downloaded int
	deleted    int
	failed     int
}

// reconcile brings one directory in line with its remote tree. A failed tree
// request leaves ok false so the previous manifest entry survives untouched.
func (e *Engine) reconcile(ctx context.Context, logger interfaces.Logger, entry interfaces.RemoteEntry, cached manifest.CachedDirectory) directoryOutcome {
	dirLogger := logging.WithMirrorContext(logger, entry.Name, "", "reconcile")

	items, err := e.remote.FetchRecursiveTree(ctx, entry.SHA)
	if err != nil {
		dirLogger.Error("mirror.directory.failed", "sha", entry.SHA, "error", transportError(err, "remote tree listing failed: "+entry.Name))
		e.metrics.ObserveDirectory(entry.Name, metrics.DirectoryFailed)
		return directoryOutcome{}
	}

	files := e.documents(items)
	known := cached.FileHashes()

	var changed []interfaces.RemoteTreeItem
	for _, item := range files {
		if sha, ok := known[item.Path]; !ok || sha != item.SHA {
			changed = append(changed, item)
		}
	}

	transferred := e.download(ctx, dirLogger, entry.Name, changed)

	outcome := directoryOutcome{ok: true}
	tracked := make([]manifest.CachedFile, 0, len(files))
	listed := make(map[string]struct{}, len(files))
	for _, item := range files {
		listed[item.Path] = struct{}{}
		sha, ok := known[item.Path]
		switch {
		case ok && sha == item.SHA:
			tracked = append(tracked, manifest.CachedFile{Path: item.Path, SHA: item.SHA})
		case transferred[item.Path]:
			tracked = append(tracked, manifest.CachedFile{Path: item.Path, SHA: item.SHA})
			outcome.downloaded++
		default:
			outcome.failed++
			outcome.dropped = append(outcome.dropped, item.Path)
		}
	}

	for _, file := range cached.Files {
		if _, ok := listed[file.Path]; ok {
			continue
		}
		outcome.dropped = append(outcome.dropped, file.Path)
		target := path.Join(entry.Name, file.Path)
		if err := e.store.DeleteFile(ctx, target); err != nil {
			logging.WithMirrorContext(logger, entry.Name, file.Path, "delete").
				Warn("mirror.file.delete_failed", "error", deletionError(err, target))
			e.metrics.ObserveFile(entry.Name, metrics.FileDeleteFailed)
			continue
		}
		outcome.deleted++
		e.metrics.ObserveFile(entry.Name, metrics.FileDeleted)
	}

	// The directory hash only advances once every listed file is tracked, so
	// a failed download keeps the directory pending for the next run.
	dirSHA := entry.SHA
	if outcome.failed > 0 {
		dirSHA = cached.SHA
	}
	outcome.directory = manifest.CachedDirectory{
		Path:  entry.Name,
		SHA:   dirSHA,
		Files: tracked,
	}
	e.metrics.ObserveDirectory(entry.Name, metrics.DirectoryReconciled)
	dirLogger.Debug("mirror.directory.reconciled",
		"sha", dirSHA,
		"files", len(tracked),
		"downloaded", outcome.downloaded,
		"deleted", outcome.deleted,
		"failed", outcome.failed,
	)
	return outcome
}

// download fetches and stores items concurrently and reports which paths
// landed in the store.
func (e *Engine) download(ctx context.Context, logger interfaces.Logger, dir string, items []interfaces.RemoteTreeItem) map[string]bool {
	ok := make([]bool, len(items))

	var group errgroup.Group
	group.SetLimit(e.concurrency)
	for i, item := range items {
		group.Go(func() error {
			target := path.Join(dir, item.Path)
			fileLogger := logging.WithMirrorContext(logger, dir, item.Path, "download")

			data, fetched := e.remote.FetchRawFile(ctx, target)
			if !fetched {
				fileLogger.Warn("mirror.file.transfer_failed", "error", fileTransferError(ErrDownloadFailed, target))
				e.metrics.ObserveFile(dir, metrics.FileFailed)
				return nil
			}
			if err := e.store.WriteFile(ctx, target, data); err != nil {
				fileLogger.Warn("mirror.file.transfer_failed", "error", fileTransferError(err, target))
				e.metrics.ObserveFile(dir, metrics.FileFailed)
				return nil
			}
			ok[i] = true
			e.metrics.ObserveFile(dir, metrics.FileDownloaded)
			return nil
		})
	}
	_ = group.Wait()

	transferred := make(map[string]bool, len(items))
	for i, item := range items {
		if ok[i] {
			transferred[item.Path] = true
		}
	}
	return transferred
}

// documents keeps the blobs with a recognised extension, one per path.
func (e *Engine) documents(items []interfaces.RemoteTreeItem) []interfaces.RemoteTreeItem {
	out := make([]interfaces.RemoteTreeItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Kind != interfaces.EntryKindBlob {
			continue
		}
		if _, ok := e.extensions[strings.ToLower(path.Ext(item.Path))]; !ok {
			continue
		}
		if _, dup := seen[item.Path]; dup {
			continue
		}
		seen[item.Path] = struct{}{}
		out = append(out, item)
	}
	return out
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

type noopMetrics struct{}

func (noopMetrics) ObserveSync(string, time.Duration) {}
func (noopMetrics) ObserveFile(string, string)        {}
func (noopMetrics) ObserveDirectory(string, string)   {}
