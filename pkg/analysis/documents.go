package analysis

import "github.com/jonathon-love/jamovi-compiler/pkg/value"

// Keys carrying the compatibility token of each document.
const (
	AnalysisVersionKey = "jas"
	ResultsVersionKey  = "jrs"
)

// SynthesizedVersion is the token given to results documents built in memory
// when none exists on disk.
const SynthesizedVersion = "1.0"

// Analysis is a decoded analysis definition (the options tree plus metadata).
type Analysis struct {
	Name    string
	Title   string
	Options []*Option

	doc *value.Map
}

// NewAnalysis wraps a decoded analysis document. A missing description is
// defaulted to an empty mapping; the caller's map is left untouched.
func NewAnalysis(doc *value.Map) *Analysis {
	if doc == nil {
		doc = value.NewMap()
	}
	if !doc.Has("description") {
		doc = doc.Clone()
		doc.Set("description", value.MapValue(nil))
	}

	a := &Analysis{
		Name:  str(doc.Lookup("name")),
		Title: str(doc.Lookup("title")),
		doc:   doc,
	}
	if list, ok := doc.Lookup("options").AsList(); ok {
		a.Options = make([]*Option, 0, len(list))
		for _, item := range list {
			m, _ := item.AsMap()
			a.Options = append(a.Options, NewOption(m))
		}
	}
	return a
}

// Version returns the compatibility token when present as a string.
func (a *Analysis) Version() (string, bool) {
	return a.doc.Lookup(AnalysisVersionKey).AsString()
}

// Prop returns a top-level property, or null.
func (a *Analysis) Prop(key string) value.Value {
	return a.doc.Lookup(key)
}

// Description returns the description mapping (never null).
func (a *Analysis) Description() value.Value {
	return a.doc.Lookup("description")
}

// DescriptionText returns the prose stored under key in the description
// mapping. A plain string description is returned for any key.
func (a *Analysis) DescriptionText(key string) string {
	return describe(a.Description(), key)
}

// Document returns the underlying document.
func (a *Analysis) Document() *value.Map {
	return a.doc
}

// Results is a decoded results definition.
type Results struct {
	Name  string
	Title string
	Items []*Result

	doc *value.Map
}

// NewResults wraps a decoded results document.
func NewResults(doc *value.Map) *Results {
	if doc == nil {
		doc = value.NewMap()
	}
	return &Results{
		Name:  str(doc.Lookup("name")),
		Title: str(doc.Lookup("title")),
		Items: resultItems(doc),
		doc:   doc,
	}
}

// SynthesizeResults builds the empty results document used when an analysis
// ships without one.
func SynthesizeResults(a *Analysis) *Results {
	doc := value.NewMap()
	doc.Set("name", a.Prop("name"))
	doc.Set("title", a.Prop("title"))
	doc.Set(ResultsVersionKey, value.String(SynthesizedVersion))
	doc.Set("items", value.List())
	return NewResults(doc)
}

// Version returns the compatibility token when present as a string.
func (r *Results) Version() (string, bool) {
	return r.doc.Lookup(ResultsVersionKey).AsString()
}

// Prop returns a top-level property, or null.
func (r *Results) Prop(key string) value.Value {
	return r.doc.Lookup(key)
}

// Root returns the document as the anonymous root container node.
func (r *Results) Root() *Result {
	return NewResult(r.doc)
}

// Document returns the underlying document.
func (r *Results) Document() *value.Map {
	return r.doc
}
