package analysis

import "github.com/jonathon-love/jamovi-compiler/pkg/value"

// Option is a node of the options tree. Every declared property is kept, in
// declaration order, for pass-through serialization; the typed fields are
// derived from them at construction.
type Option struct {
	Kind     OptionKind
	Type     string
	Name     string
	Title    string
	Template *Option
	Elements []*Option

	props *value.Map
}

// NewOption builds an option node from its declared properties. Array
// templates and Group elements are built recursively.
func NewOption(props *value.Map) *Option {
	if props == nil {
		props = value.NewMap()
	}
	o := &Option{
		Type:  str(props.Lookup("type")),
		Name:  str(props.Lookup("name")),
		Title: str(props.Lookup("title")),
		props: props,
	}
	o.Kind = ParseOptionKind(o.Type)

	switch o.Kind {
	case OptionArray:
		if m, ok := props.Lookup("template").AsMap(); ok {
			o.Template = NewOption(m)
		}
	case OptionGroup:
		if list, ok := props.Lookup("elements").AsList(); ok {
			o.Elements = make([]*Option, 0, len(list))
			for _, item := range list {
				m, _ := item.AsMap()
				o.Elements = append(o.Elements, NewOption(m))
			}
		}
	}
	return o
}

// Props returns the declared properties in declaration order.
func (o *Option) Props() *value.Map {
	return o.props
}

// Prop returns a declared property, or null.
func (o *Option) Prop(key string) value.Value {
	return o.props.Lookup(key)
}

// Default returns the declared default value, or null.
func (o *Option) Default() value.Value {
	return o.props.Lookup("default")
}

// DescriptionText returns the R-facing description of the option, falling
// back to the main text.
func (o *Option) DescriptionText() string {
	if text := describe(o.Prop("description"), "R"); text != "" {
		return text
	}
	return describe(o.Prop("description"), "main")
}

// Result is a node of the results tree.
type Result struct {
	Kind     ResultKind
	Type     string
	Name     string
	Template *Result
	Items    []*Result

	props *value.Map
}

// NewResult builds a result node from its declared properties.
func NewResult(props *value.Map) *Result {
	if props == nil {
		props = value.NewMap()
	}
	r := &Result{
		Type:  str(props.Lookup("type")),
		Name:  str(props.Lookup("name")),
		props: props,
	}
	r.Kind = ParseResultKind(r.Type)

	if r.Kind == ResultArray {
		if m, ok := props.Lookup("template").AsMap(); ok {
			r.Template = NewResult(m)
		}
	}
	r.Items = resultItems(props)
	return r
}

func resultItems(props *value.Map) []*Result {
	list, ok := props.Lookup("items").AsList()
	if !ok {
		return nil
	}
	items := make([]*Result, 0, len(list))
	for _, item := range list {
		m, _ := item.AsMap()
		items = append(items, NewResult(m))
	}
	return items
}

// Props returns the declared properties in declaration order.
func (r *Result) Props() *value.Map {
	return r.props
}

// Prop returns a declared property, or null.
func (r *Result) Prop(key string) value.Value {
	return r.props.Lookup(key)
}

// IsContainer reports whether r renders as a class definition.
func (r *Result) IsContainer() bool {
	return r.Kind == ResultGroup
}

func describe(desc value.Value, key string) string {
	if s, ok := desc.AsString(); ok {
		return s
	}
	if s, ok := desc.Get(key).AsString(); ok {
		return s
	}
	return ""
}

func str(v value.Value) string {
	s, _ := v.AsString()
	return s
}
