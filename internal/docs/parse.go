package docs

import (
	"errors"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const (
	frontMatterDelimiter = "---"
	frontMatterEnd       = "..."
)

// Parse turns document text into a record.
//
// For FormatMarkdown the first line that is exactly "---" opens the front
// matter and the next line that is exactly "---" or "..." closes it; the body
// is everything after the closing line. Text without both delimiters yields
// a nil record and a nil error. For FormatYAML the whole text is the record.
// Malformed YAML is reported as a parse error.
func Parse(text string, format Format) (*DocumentRecord, error) {
	return parse(text, format, "")
}

func parse(text string, format Format, name string) (*DocumentRecord, error) {
	switch format {
	case FormatYAML:
		return parseYAML(text, name)
	case FormatMarkdown:
		return parseMarkdown(text, name)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseYAML(text, name string) (*DocumentRecord, error) {
	record := &DocumentRecord{}
	if err := yaml.Unmarshal([]byte(text), record); err != nil {
		return nil, parseError(err, name)
	}
	return record, nil
}

func parseMarkdown(text, name string) (*DocumentRecord, error) {
	lines := strings.Split(text, "\n")

	open, closeAt := -1, -1
	for i, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		if open < 0 {
			if line == frontMatterDelimiter {
				open = i
			}
			continue
		}
		if line == frontMatterDelimiter || line == frontMatterEnd {
			closeAt = i
			break
		}
	}
	if open < 0 || closeAt < 0 {
		return nil, nil
	}

	closer := strings.TrimSuffix(lines[closeAt], "\r")
	format := frontmatter.NewFormat(frontMatterDelimiter, closer, yaml.Unmarshal)
	source := strings.Join(lines[open:closeAt+1], "\n") + "\n"

	record := &DocumentRecord{}
	if _, err := frontmatter.Parse(strings.NewReader(source), record, format); err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, nil
		}
		return nil, parseError(err, name)
	}
	record.Body = strings.Join(lines[closeAt+1:], "\n")
	return record, nil
}
