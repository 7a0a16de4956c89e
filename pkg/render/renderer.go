package render

import (
	"errors"
	"fmt"

	"github.com/jonathon-love/jamovi-compiler/pkg/analysis"
	"github.com/jonathon-love/jamovi-compiler/pkg/render/template"
	"github.com/jonathon-love/jamovi-compiler/pkg/render/template/pongo"
)

// Input is the data bound into a template alongside the helper functions.
type Input struct {
	PackageName string
	Analysis    *analysis.Analysis
	Results     *analysis.Results
}

// Context returns the template context for in: the documents, the package
// name and every helper from Funcs.
func (in Input) Context() map[string]any {
	ctx := Funcs()
	ctx["packageName"] = in.PackageName
	ctx["analysis"] = in.Analysis
	ctx["results"] = in.Results
	return ctx
}

// Renderer executes named or inline templates against an Input.
type Renderer struct {
	engine    template.TemplateRenderer
	templates *Registry
}

// New builds a Renderer. A nil engine defaults to pongo2, nil templates to
// the built-in registry. The text helpers are registered as filters.
func New(engine template.TemplateRenderer, templates *Registry) (*Renderer, error) {
	if engine == nil {
		var err error
		if engine, err = pongo.New(); err != nil {
			return nil, err
		}
	}
	if templates == nil {
		templates = Builtin()
	}

	for name, fn := range filters() {
		if err := engine.RegisterFilter(name, fn); err != nil && !errors.Is(err, template.ErrFilterExists) {
			return nil, fmt.Errorf("render: register filter %q: %w", name, err)
		}
	}
	return &Renderer{engine: engine, templates: templates}, nil
}

// Templates returns the registry the renderer resolves names against.
func (r *Renderer) Templates() *Registry {
	return r.templates
}

// Render executes the registered template name.
func (r *Renderer) Render(name string, in Input) (string, error) {
	body, err := r.templates.Get(name)
	if err != nil {
		return "", err
	}
	out, err := r.engine.RenderString(body, in.Context())
	if err != nil {
		return "", fmt.Errorf("render: template %q: %w", name, err)
	}
	return out, nil
}

// RenderString executes an inline template body.
func (r *Renderer) RenderString(body string, in Input) (string, error) {
	out, err := r.engine.RenderString(body, in.Context())
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return out, nil
}

func filters() map[string]func(input any, param any) (any, error) {
	return map[string]func(input any, param any) (any, error){
		"asciify": func(input any, _ any) (any, error) {
			return Asciify(textArg(input)), nil
		},
		"striphtml": func(input any, _ any) (any, error) {
			return StripHTML(textArg(input)), nil
		},
		"wrap": func(input any, param any) (any, error) {
			if param == nil {
				return wrap(input)
			}
			return wrap(input, param)
		},
	}
}
