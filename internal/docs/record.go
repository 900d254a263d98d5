// Package docs parses mirrored documentation files into DocumentRecords and
// resolves parameter imports against the shared parameters directory.
package docs

// DocumentRecord is the normalised content of one documentation file.
type DocumentRecord struct {
	Description string            `yaml:"description" json:"description,omitempty"`
	Example     string            `yaml:"example" json:"example,omitempty"`
	Body        string            `yaml:"-" json:"body,omitempty"`
	Parameters  []ParameterRecord `yaml:"parameters" json:"parameters,omitempty"`
}

// ParameterRecord documents one method parameter. Import names a file under
// the parameters directory, without extension, whose description is used
// when Description is empty.
type ParameterRecord struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Import      string `yaml:"import" json:"import,omitempty"`
	Required    bool   `yaml:"required" json:"required,omitempty"`
	Default     any    `yaml:"default" json:"default,omitempty"`
}

// Format selects how a document's text is interpreted.
type Format int

const (
	// FormatMarkdown is a YAML front-matter block followed by a Markdown body.
	FormatMarkdown Format = iota
	// FormatYAML is a bare YAML record with no body.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}
