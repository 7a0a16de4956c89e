// Package validate walks options and results trees and checks every node
// against the schema registry. Validation stops at the first failing node.
package validate

import (
	"fmt"
	"strings"

	"github.com/jonathon-love/jamovi-compiler/pkg/analysis"
	"github.com/jonathon-love/jamovi-compiler/pkg/registry"
)

// Failure describes the first node that violated its schema.
type Failure struct {
	// Name is the qualified name of the failing node, e.g. "tests.template".
	Name string
	// Issues holds the engine diagnostics with the placeholder already
	// replaced by Name.
	Issues []string
}

func (f *Failure) Error() string {
	return strings.Join(f.Issues, "\n\t")
}

// Validator checks trees against an injected registry.
type Validator struct {
	registry *registry.Registry
}

// New constructs a Validator. A nil registry disables schema checks so only
// the structural walk remains.
func New(reg *registry.Registry) *Validator {
	return &Validator{registry: reg}
}

// Analysis checks the whole analysis document, then every top-level option
// under its own name, in declaration order.
func (v *Validator) Analysis(a *analysis.Analysis) error {
	if err := v.check(registry.SetDocuments, registry.DocumentAnalysis, a.Document().Interface(), "analysis"); err != nil {
		return err
	}
	for _, option := range a.Options {
		if err := v.Option(option, option.Name); err != nil {
			return err
		}
	}
	return nil
}

// Results checks the whole results document, then every top-level item as
// results.items[i].
func (v *Validator) Results(r *analysis.Results) error {
	if err := v.check(registry.SetDocuments, registry.DocumentResults, r.Document().Interface(), "results"); err != nil {
		return err
	}
	for i, item := range r.Items {
		if err := v.Result(item, fmt.Sprintf("results.items[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// Option checks an option node and its descendants.
func (v *Validator) Option(o *analysis.Option, name string) error {
	if err := v.check(registry.SetOptions, o.Type, o.Props().Interface(), name); err != nil {
		return err
	}

	switch o.Kind {
	case analysis.OptionArray:
		if o.Template != nil {
			return v.Option(o.Template, name+".template")
		}
	case analysis.OptionGroup:
		for i, element := range o.Elements {
			if err := v.Option(element, fmt.Sprintf("%s.elements[%d]", name, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Result checks a result element and its descendants.
func (v *Validator) Result(r *analysis.Result, name string) error {
	if err := v.check(registry.SetResults, r.Type, r.Props().Interface(), name); err != nil {
		return err
	}

	switch r.Kind {
	case analysis.ResultArray:
		if r.Template != nil {
			return v.Result(r.Template, name+".template")
		}
	case analysis.ResultGroup:
		for i, item := range r.Items {
			if err := v.Result(item, fmt.Sprintf("%s.items[%d]", name, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Validator) check(set registry.Set, tag string, value any, name string) error {
	if v.registry == nil || tag == "" {
		return nil
	}
	issues := v.registry.Check(set, tag, value)
	if len(issues) == 0 {
		return nil
	}
	replaced := make([]string, len(issues))
	for i, issue := range issues {
		replaced[i] = strings.ReplaceAll(issue, registry.Placeholder, name)
	}
	return &Failure{Name: name, Issues: replaced}
}
