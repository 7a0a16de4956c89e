package codegen

import (
	"github.com/jonathon-love/jamovi-compiler/pkg/analysis"
	"github.com/jonathon-love/jamovi-compiler/pkg/value"
)

// Default starting indents used when templates call the option serializers
// without one.
const (
	DefaultOptionValueIndent Indent = 12
	DefaultOptionIndent      Indent = 16
)

// Properties never forwarded as named constructor arguments.
var optionSkipped = map[string]struct{}{
	"type":        {},
	"name":        {},
	"title":       {},
	"description": {},
}

// OptionValue renders a property value of an option. name is the closest
// option name, inherited by nested option nodes that omit their own; ref is
// the value reference passed to nested option constructors.
func OptionValue(v value.Value, name, ref string, indent Indent) Doc {
	if d, ok := scalar(v); ok {
		return d
	}

	if items, ok := v.AsList(); ok {
		inner := indent.Add(1)
		elems := make([]Doc, len(items))
		for i, item := range items {
			elems[i] = OptionValue(item, name, ref, inner)
		}
		if len(elems) == 0 {
			return Text("list()")
		}
		return Concat(
			Text("list("),
			Line(inner),
			Join(Concat(Text(","), Line(inner)), elems),
			Text(")"),
		)
	}

	m, _ := v.AsMap()
	if m.Lookup("type").Truthy() {
		return Option(analysis.NewOption(m), name, ref, indent.Add(1))
	}

	var pairs []Doc
	m.Each(func(key string, item value.Value) bool {
		pairs = append(pairs, Concat(Text(key+"="), OptionValue(item, name, ref, indent)))
		return true
	})
	return Concat(Text("list("), Join(Text(", "), pairs), Text(")"))
}

// Option renders the constructor call of an option node. The node's own name
// takes precedence over name. An empty ref means the option name, so an
// explicitly empty value reference cannot be requested.
func Option(o *analysis.Option, name, ref string, indent Indent) Doc {
	if o.Name != "" {
		name = o.Name
	}
	if ref == "" {
		ref = name
	}

	out := concat{
		Text(Namespace + "::Option" + o.Type + "$new("),
		Line(indent),
		Text(`"` + name + `",`),
		Line(indent),
		Text(ref),
	}
	o.Props().Each(func(key string, item value.Value) bool {
		if _, skip := optionSkipped[key]; skip {
			return true
		}
		out = append(out,
			Text(","),
			Line(indent),
			Text(key+"="),
			OptionValue(item, name, rNull, indent),
		)
		return true
	})
	out = append(out, Text(")"))
	return out
}

// FormatOption renders o at the default indent with its own name as value
// reference.
func FormatOption(o *analysis.Option) string {
	return Print(Option(o, "", "", DefaultOptionIndent))
}

// FormatOptionValue renders v at the default value indent.
func FormatOptionValue(v value.Value) string {
	return Print(OptionValue(v, "", rNull, DefaultOptionValueIndent))
}
