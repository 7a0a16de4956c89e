package registry

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Set groups schemas by what they validate.
type Set string

const (
	// SetDocuments holds whole-document schemas keyed by DocumentAnalysis and
	// DocumentResults.
	SetDocuments Set = "documents"
	// SetOptions holds option node schemas keyed by type tag.
	SetOptions Set = "options"
	// SetResults holds result element schemas keyed by type tag.
	SetResults Set = "results"
)

// Document schema keys within SetDocuments.
const (
	DocumentAnalysis = "analysis"
	DocumentResults  = "results"
)

// Placeholder stands for the validated value in diagnostics. Callers replace
// it with the qualified name of the node being checked.
const Placeholder = "instance"

// Registry is an immutable set of structural schemas keyed by set and tag.
// It is safe for concurrent use once constructed.
type Registry struct {
	sets map[Set]map[string]*openapi3.Schema
}

// New builds a registry from pre-parsed schemas. The maps are copied so later
// changes by the caller do not leak in.
func New(sets map[Set]map[string]*openapi3.Schema) *Registry {
	r := &Registry{sets: make(map[Set]map[string]*openapi3.Schema, len(sets))}
	for set, schemas := range sets {
		clone := make(map[string]*openapi3.Schema, len(schemas))
		for tag, schema := range schemas {
			if schema == nil {
				continue
			}
			clone[tag] = schema
		}
		r.sets[set] = clone
	}
	return r
}

// Has reports whether tag has a schema in set.
func (r *Registry) Has(set Set, tag string) bool {
	_, ok := r.lookup(set, tag)
	return ok
}

// Tags returns the sorted tags registered in set.
func (r *Registry) Tags(set Set) []string {
	if r == nil {
		return nil
	}
	tags := make([]string, 0, len(r.sets[set]))
	for tag := range r.sets[set] {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Check validates value (plain Go data as produced by value.Value.Interface)
// against the schema registered for tag. It returns nil when the value
// conforms or no schema is registered, otherwise one diagnostic per
// violation, each starting with Placeholder.
func (r *Registry) Check(set Set, tag string, value any) []string {
	schema, ok := r.lookup(set, tag)
	if !ok {
		return nil
	}
	err := schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	var out []string
	collect(err, &out)
	return out
}

func (r *Registry) lookup(set Set, tag string) (*openapi3.Schema, bool) {
	if r == nil {
		return nil, false
	}
	schema, ok := r.sets[set][tag]
	return schema, ok
}

func collect(err error, out *[]string) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collect(inner, out)
		}
		return
	case *openapi3.SchemaError:
		*out = append(*out, describe(e))
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		*out = append(*out, describe(schemaErr))
		return
	}
	*out = append(*out, Placeholder+" "+strings.TrimSpace(err.Error()))
}

func describe(err *openapi3.SchemaError) string {
	var b strings.Builder
	b.WriteString(Placeholder)
	for _, segment := range err.JSONPointer() {
		if _, convErr := strconv.Atoi(segment); convErr == nil {
			b.WriteString("[" + segment + "]")
			continue
		}
		b.WriteString("." + segment)
	}
	reason := strings.TrimSpace(err.Reason)
	if reason == "" {
		reason = "is invalid"
	}
	b.WriteString(" " + reason)
	return b.String()
}
