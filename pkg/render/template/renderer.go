package template

import (
	"errors"
	"io"
)

// ErrFilterExists is returned by RegisterFilter when the engine already knows
// a filter by that name.
var ErrFilterExists = errors.New("template: filter already registered")

// TemplateRenderer is the seam between the code generator and a concrete
// template engine.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
