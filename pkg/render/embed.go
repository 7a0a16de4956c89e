package render

import (
	"embed"
	"io/fs"
)

// Names of the built-in templates.
const (
	TemplateOptions = "options"
	TemplateResults = "results"

	TemplateExt = ".tpl"
)

//go:embed templates/*.tpl
var builtinFS embed.FS

// BuiltinFS exposes the embedded templates rooted at their directory.
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Builtin returns a fresh registry holding the embedded templates.
func Builtin() *Registry {
	r := NewRegistry()
	if err := r.RegisterFS(BuiltinFS()); err != nil {
		panic(err)
	}
	return r
}
