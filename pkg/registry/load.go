package registry

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Schema files expected by Load, relative to the filesystem root.
const (
	AnalysisFile       = "analysis.yaml"
	ResultsFile        = "results.yaml"
	OptionsFile        = "options.yaml"
	ResultElementsFile = "resultelements.yaml"
)

// Load reads the four schema files from fsys. Document schemas hold a single
// schema object, element files map type tags to schema objects.
func Load(fsys fs.FS) (*Registry, error) {
	if fsys == nil {
		return nil, fmt.Errorf("registry: filesystem is nil")
	}

	documents := make(map[string]*openapi3.Schema, 2)
	for key, file := range map[string]string{
		DocumentAnalysis: AnalysisFile,
		DocumentResults:  ResultsFile,
	} {
		raw, err := readYAML(fsys, file)
		if err != nil {
			return nil, err
		}
		schema, err := toSchema(raw)
		if err != nil {
			return nil, fmt.Errorf("registry: %s: %w", file, err)
		}
		documents[key] = schema
	}

	options, err := loadKeyed(fsys, OptionsFile)
	if err != nil {
		return nil, err
	}
	results, err := loadKeyed(fsys, ResultElementsFile)
	if err != nil {
		return nil, err
	}

	return New(map[Set]map[string]*openapi3.Schema{
		SetDocuments: documents,
		SetOptions:   options,
		SetResults:   results,
	}), nil
}

// Parse builds a single schema from YAML or JSON source. Useful for tests
// assembling synthetic registries.
func Parse(src []byte) (*openapi3.Schema, error) {
	var raw any
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("registry: parse schema: %w", err)
	}
	return toSchema(raw)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded schemas. It is loaded
// once per process and shared.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Load(EmbeddedFS())
	})
	return defaultRegistry, defaultErr
}

func loadKeyed(fsys fs.FS, file string) (map[string]*openapi3.Schema, error) {
	raw, err := readYAML(fsys, file)
	if err != nil {
		return nil, err
	}
	entries, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("registry: %s must map type tags to schemas", file)
	}

	out := make(map[string]*openapi3.Schema, len(entries))
	for tag, entry := range entries {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			return nil, fmt.Errorf("registry: %s defines an empty type tag", file)
		}
		schema, err := toSchema(entry)
		if err != nil {
			return nil, fmt.Errorf("registry: %s: %s: %w", file, trimmed, err)
		}
		out[trimmed] = schema
	}
	return out, nil
}

func readYAML(fsys fs.FS, file string) (any, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", file, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("registry: file %s is empty", file)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", file, err)
	}
	return raw, nil
}

func toSchema(raw any) (*openapi3.Schema, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	schema := &openapi3.Schema{}
	if err := json.Unmarshal(payload, schema); err != nil {
		return nil, err
	}
	return schema, nil
}
