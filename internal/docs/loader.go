package docs

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// DefaultImportDir is the mirrored directory holding shared parameter records.
const DefaultImportDir = ".parameters"

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	// ImportDir is the store directory that parameter imports resolve against.
	ImportDir string
}

// Loader reads documents from a FileStore, parses them and fills parameter
// descriptions from their imports.
type Loader struct {
	store     interfaces.FileStore
	importDir string
	logger    interfaces.Logger
}

// NewLoader builds a loader over store.
func NewLoader(store interfaces.FileStore, cfg LoaderConfig, logger interfaces.Logger) *Loader {
	importDir := strings.Trim(strings.TrimSpace(cfg.ImportDir), "/")
	if importDir == "" {
		importDir = DefaultImportDir
	}
	return &Loader{
		store:     store,
		importDir: importDir,
		logger:    logging.Ensure(logger),
	}
}

// FormatForPath picks the document format from the file extension.
func FormatForPath(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Load reads and parses the document at name. A Markdown file without front
// matter yields a nil record. Import failures are logged and leave the
// parameter description empty; they never fail the load.
func (l *Loader) Load(ctx context.Context, name string) (*DocumentRecord, error) {
	format, err := FormatForPath(name)
	if err != nil {
		return nil, err
	}

	text, err := l.store.ReadText(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("docs: read %s: %w", name, err)
	}

	record, err := parse(text, format, name)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	l.resolveImports(ctx, name, record)
	return record, nil
}

func (l *Loader) resolveImports(ctx context.Context, name string, record *DocumentRecord) {
	for i := range record.Parameters {
		param := &record.Parameters[i]
		ref := strings.TrimSpace(param.Import)
		if ref == "" || strings.TrimSpace(param.Description) != "" {
			continue
		}

		description, err := l.importDescription(ctx, ref)
		if err != nil {
			logging.WithFields(l.logger, map[string]any{
				"document":  name,
				"parameter": param.Name,
				"import":    ref,
			}).Warn("docs.import.failed", "error", importError(err, ref))
			continue
		}
		param.Description = description
	}
}

// importDescription loads <importDir>/<ref>.yml. The imported record's own
// imports are not followed.
func (l *Loader) importDescription(ctx context.Context, ref string) (string, error) {
	text, err := l.store.ReadText(ctx, path.Join(l.importDir, ref+".yml"))
	if err != nil {
		return "", err
	}
	imported, err := parse(text, FormatYAML, ref)
	if err != nil {
		return "", err
	}
	if imported == nil {
		return "", ErrImportNotRecord
	}
	return imported.Description, nil
}
