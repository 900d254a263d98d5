package docs

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeParseFailed tags malformed structured data in a document.
	TextCodeParseFailed = "DOCUMENT_PARSE_FAILED"
	// TextCodeImportFailed tags a parameter import that could not be resolved.
	TextCodeImportFailed = "PARAMETER_IMPORT_FAILED"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .md nor .yml.
	ErrUnsupportedFormat = errors.New("docs: unsupported document format")
	// ErrImportNotRecord reports an import file without a structured record.
	ErrImportNotRecord = errors.New("docs: import file holds no record")
)

func parseError(err error, path string) error {
	msg := "document structured data is malformed"
	if path != "" {
		msg += ": " + path
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, msg).
		WithTextCode(TextCodeParseFailed)
}

func importError(err error, ref string) error {
	return goerrors.Wrap(err, goerrors.CategoryNotFound, "parameter import could not be resolved: "+ref).
		WithTextCode(TextCodeImportFailed)
}

// IsParseError reports whether err came from malformed document data.
func IsParseError(err error) bool {
	return hasTextCode(err, TextCodeParseFailed)
}

// IsImportError reports whether err came from a failed parameter import.
func IsImportError(err error) bool {
	return hasTextCode(err, TextCodeImportFailed)
}

func hasTextCode(err error, code string) bool {
	var typed *goerrors.Error
	if !errors.As(err, &typed) || typed == nil {
		return false
	}
	return typed.TextCode == code
}
