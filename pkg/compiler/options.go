package compiler

import (
	"io/fs"

	"github.com/jonathon-love/jamovi-compiler/internal/loader"
	"github.com/jonathon-love/jamovi-compiler/pkg/registry"
	"github.com/jonathon-love/jamovi-compiler/pkg/render"
	"github.com/jonathon-love/jamovi-compiler/pkg/render/template"
	"github.com/jonathon-love/jamovi-compiler/pkg/version"
)

// Option customises the compiler configuration.
type Option func(*Compiler)

// WithRegistry injects the schema registry used for validation. Defaults to
// the embedded schemas.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Compiler) {
		c.registry = reg
	}
}

// WithGate overrides the supported compatibility version.
func WithGate(gate version.Gate) Option {
	return func(c *Compiler) {
		c.gate = gate
	}
}

// WithLoader injects a custom document loader.
func WithLoader(l Loader) Option {
	return func(c *Compiler) {
		c.loader = l
	}
}

// WithFS makes fs sources resolve against files using the default loader.
func WithFS(files fs.FS) Option {
	return func(c *Compiler) {
		c.loader = loader.New(files)
	}
}

// WithEngine injects the template engine. Defaults to pongo2.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(c *Compiler) {
		c.engine = engine
	}
}

// WithTemplates injects the template registry. Defaults to the built-in
// options and results templates.
func WithTemplates(templates *render.Registry) Option {
	return func(c *Compiler) {
		c.templates = templates
	}
}
