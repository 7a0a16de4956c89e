package codegen

import (
	"github.com/jonathon-love/jamovi-compiler/pkg/analysis"
	"github.com/jonathon-love/jamovi-compiler/pkg/value"
)

// DefaultResultValueIndent is the starting indent for result property values
// rendered without one.
const DefaultResultValueIndent Indent = 16

// Title given to containers that do not declare one.
const defaultTitle = "no title"

var resultSkipped = map[string]struct{}{
	"type":        {},
	"description": {},
}

// ResultValue renders a property value of a result element. Mappings whose
// type is a result element kind render as nested elements; other mappings
// become named lists with back-quoted keys.
func ResultValue(v value.Value, indent Indent) Doc {
	if d, ok := scalar(v); ok {
		return d
	}

	if items, ok := v.AsList(); ok {
		if len(items) == 0 {
			return Text("list()")
		}
		sep := indent.Add(2)
		elems := make([]Doc, len(items))
		for i, item := range items {
			elems[i] = ResultValue(item, indent.Add(1))
		}
		return Concat(
			Text("list("),
			Line(sep),
			Join(Concat(Text(","), Line(sep)), elems),
			Text(")"),
		)
	}

	m, _ := v.AsMap()
	if tag, ok := m.Lookup("type").AsString(); ok && analysis.ParseResultKind(tag).Known() {
		return Result(analysis.NewResult(m), indent.Add(1), false)
	}

	var pairs []Doc
	m.Each(func(key string, item value.Value) bool {
		pairs = append(pairs, Concat(Text("`"+key+"`="), ResultValue(item, indent.Add(2))))
		return true
	})
	return Concat(Text("list("), Join(Text(", "), pairs), Text(")"))
}

// Result renders a result element. Groups, and the root regardless of its
// type, render as an anonymous R6 class; the root class is left for the
// caller to instantiate.
func Result(r *analysis.Result, indent Indent, root bool) Doc {
	if root || r.Kind == analysis.ResultGroup {
		return container(r, indent, root)
	}
	if r.Prop("type").Truthy() {
		return element(r, indent)
	}
	return Text("")
}

func container(r *analysis.Result, indent Indent, root bool) Doc {
	title := defaultTitle
	if v, ok := r.Props().Get("title"); ok {
		title = v.Text()
	}
	name := ""
	if v, ok := r.Props().Get("name"); ok && !root {
		name = v.Text()
	}

	field, body := indent.Add(2), indent.Add(3)

	accessors := make([]Doc, len(r.Items))
	fields := make([]Doc, len(r.Items))
	for i, child := range r.Items {
		accessors[i] = Concat(Line(field), Text(child.Name+" = function() private$.."+child.Name))
		fields[i] = Concat(Line(field), Text(".."+child.Name+" = NA"))
	}

	out := concat{
		Text("R6::R6Class("),
		Line(indent.Add(1)), Text("inherit = " + Namespace + "::Group,"),
		Line(indent.Add(1)), Text("active = list("),
		Join(Text(","), accessors),
		Text("),"),
		Line(indent.Add(1)), Text("private = list("),
		Join(Text(","), fields),
		Text("),"),
		Line(indent.Add(1)), Text("public=list("),
		Line(field), Text("initialize=function(options) {"),
		Line(body), Text(`super$initialize(options=options, name="` + name + `", title="` + title + `")`),
	}
	for _, child := range r.Items {
		out = append(out,
			Line(body),
			Text("private$.."+child.Name+" <- "),
			ResultValue(value.MapValue(child.Props()), field),
		)
	}
	for _, child := range r.Items {
		out = append(out, Line(body), Text("self$add(private$.."+child.Name+")"))
	}
	out = append(out, Text("}))"))

	if !root {
		out = append(out, Text("$new(options=options)"))
	}
	return out
}

func element(r *analysis.Result, indent Indent) Doc {
	inner := indent.Add(1)
	out := concat{
		Text(Namespace + "::" + r.Prop("type").Text() + "$new("),
		Line(inner),
		Text("options=options"),
	}
	r.Props().Each(func(key string, item value.Value) bool {
		if _, skip := resultSkipped[key]; skip {
			return true
		}
		out = append(out, Text(","), Line(inner), Text(key+"="), ResultValue(item, indent))
		return true
	})
	out = append(out, Text(")"))
	return out
}

// FormatResults renders the root class of a results document.
func FormatResults(r *analysis.Results) string {
	return Print(Result(r.Root(), 0, true))
}

// FormatResultValue renders v at the default value indent.
func FormatResultValue(v value.Value) string {
	return Print(ResultValue(v, DefaultResultValueIndent))
}
