package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// ErrInvalidManifest reports a persisted manifest that could not be decoded
// or did not match the expected document shape. Load still returns an empty
// manifest alongside it.
var ErrInvalidManifest = errors.New("manifest: invalid document")

const schemaResource = "manifest.schema.json"

const schemaDocument = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["path", "sha"],
    "properties": {
      "path": {"type": "string", "minLength": 1},
      "sha": {"type": "string"},
      "files": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "required": ["path", "sha"],
          "properties": {
            "path": {"type": "string", "minLength": 1},
            "sha": {"type": "string"}
          }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaResource, strings.NewReader(schemaDocument)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaResource)
	})
	return compiledSchema, schemaErr
}

// Decode parses a persisted manifest document.
func Decode(data []byte) (Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Manifest{}, fmt.Errorf("%w: empty document", ErrInvalidManifest)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	schema, err := documentSchema()
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: compile schema: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return m, nil
}

// Encode serialises the manifest as a JSON array.
func Encode(m Manifest) ([]byte, error) {
	if m == nil {
		m = Manifest{}
	}
	out := make(Manifest, len(m))
	for i, dir := range m {
		if dir.Files == nil {
			dir.Files = []CachedFile{}
		}
		out[i] = dir
	}
	return json.Marshal(out)
}

// Load reads the manifest at path. A missing file yields an empty manifest
// and no error; an unreadable or malformed one yields an empty manifest and
// the reason, which callers log and otherwise ignore.
func Load(ctx context.Context, store interfaces.FileStore, path string) (Manifest, error) {
	text, err := store.ReadText(ctx, path)
	if err != nil {
		if errors.Is(err, interfaces.ErrFileNotFound) {
			return Manifest{}, nil
		}
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Decode([]byte(text))
}

// Save replaces the manifest at path with a single write.
func Save(ctx context.Context, store interfaces.FileStore, path string, m Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := store.WriteFile(ctx, path, data); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}
