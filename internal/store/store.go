// Package store implements interfaces.FileStore on top of afero so the mirror
// can run against the local disk or an in-memory filesystem.
package store

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

var (
	// ErrEmptyPath is returned when a store operation receives a blank path.
	ErrEmptyPath = errors.New("file store: path is required")

	errStopWalk = errors.New("file store: stop walk")
)

var _ interfaces.FileStore = (*Store)(nil)

// Store is an afero backed file store. All paths are slash separated and
// relative to the filesystem root.
type Store struct {
	fs afero.Fs
}

// New wraps an existing afero filesystem.
func New(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return &Store{fs: fs}
}

// NewOS returns a store rooted at dir on the host filesystem.
func NewOS(dir string) *Store {
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewMemory returns a store backed by an in-memory filesystem.
func NewMemory() *Store {
	return New(afero.NewMemMapFs())
}

// Fs exposes the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

func (s *Store) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := cleanPath(name)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("file store: create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, target, data, filePerm); err != nil {
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	return nil
}

func (s *Store) DeleteFile(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := cleanPath(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("file store: delete %s: %w", name, err)
	}
	return nil
}

func (s *Store) ReadText(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target, err := cleanPath(name)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(s.fs, target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", interfaces.ErrFileNotFound, name)
		}
		return "", fmt.Errorf("file store: read %s: %w", name, err)
	}
	return string(data), nil
}

// ListFiles walks baseDir and yields every regular file whose path relative to
// baseDir matches pattern. Patterns use gobwas/glob syntax with '/' as the
// separator, so "**/name.{yml,md}" matches at any depth including the root of
// baseDir. A missing baseDir yields nothing.
func (s *Store) ListFiles(ctx context.Context, pattern, baseDir string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			yield("", fmt.Errorf("file store: compile pattern %q: %w", pattern, err))
			return
		}

		root := "."
		if strings.TrimSpace(baseDir) != "" {
			if root, err = cleanPath(baseDir); err != nil {
				yield("", err)
				return
			}
		}
		if ok, _ := afero.DirExists(s.fs, root); !ok {
			return
		}

		walkErr := afero.Walk(s.fs, root, func(current string, info os.FileInfo, err error) error {
			if err != nil {
				if !yield("", err) {
					return errStopWalk
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, current)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if !matcher.Match(rel) && !matcher.Match("/"+rel) {
				return nil
			}
			if !yield(rel, nil) {
				return errStopWalk
			}
			return nil
		})
		if walkErr != nil && !errors.Is(walkErr, errStopWalk) {
			yield("", walkErr)
		}
	}
}

func cleanPath(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyPath
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(trimmed)), "/")
	if cleaned == "" {
		return ".", nil
	}
	return filepath.FromSlash(cleaned), nil
}
