package interfaces

import (
	"context"
	"errors"
	"iter"
)

// ErrFileNotFound is returned by FileStore.ReadText when the path does not exist.
var ErrFileNotFound = errors.New("file store: file not found")

// FileStore is the key-value view of the local mirror. Paths are slash
// separated and relative to the store root.
type FileStore interface {
	// WriteFile stores data at path, creating parent directories as needed.
	WriteFile(ctx context.Context, path string, data []byte) error
	// DeleteFile removes path. Deleting a missing path is not an error.
	DeleteFile(ctx context.Context, path string) error
	// ListFiles lazily yields paths relative to baseDir that match pattern.
	// The sequence is finite and is walked once per call.
	ListFiles(ctx context.Context, pattern, baseDir string) iter.Seq2[string, error]
	// ReadText returns the file content, or ErrFileNotFound.
	ReadText(ctx context.Context, path string) (string, error)
}
