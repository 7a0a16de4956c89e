package render

import (
	"fmt"

	"github.com/jonathon-love/jamovi-compiler/pkg/analysis"
	"github.com/jonathon-love/jamovi-compiler/pkg/codegen"
	"github.com/jonathon-love/jamovi-compiler/pkg/value"
)

// Funcs returns the helpers bound into every template context. The
// serializers take the node first followed by the same optional arguments,
// in the same order, as their codegen counterparts.
func Funcs() map[string]any {
	return map[string]any{
		"optionify":       optionify,
		"sourcifyOption":  sourcifyOption,
		"resultsify":      resultsify,
		"sourcifyResults": sourcifyResults,
		"asciify":         func(text any) string { return Asciify(textArg(text)) },
		"striphtml":       func(text any) string { return StripHTML(textArg(text)) },
		"wrap":            wrap,
	}
}

// optionify(option [, optionName [, valueRef [, indent]]])
func optionify(node any, args ...any) (string, error) {
	var o *analysis.Option
	switch n := node.(type) {
	case *analysis.Option:
		o = n
	default:
		v, err := toValue(node)
		if err != nil {
			return "", fmt.Errorf("optionify: %w", err)
		}
		m, ok := v.AsMap()
		if !ok {
			return "", fmt.Errorf("optionify: expected an option, got %s", v.Kind())
		}
		o = analysis.NewOption(m)
	}

	name, ref, indent := "", "", codegen.DefaultOptionIndent
	if len(args) > 0 {
		name = textArg(args[0])
	}
	if len(args) > 1 {
		ref = textArg(args[1])
	}
	if len(args) > 2 {
		var err error
		if indent, err = indentArg(args[2]); err != nil {
			return "", fmt.Errorf("optionify: %w", err)
		}
	}
	return codegen.Print(codegen.Option(o, name, ref, indent)), nil
}

// sourcifyOption(value [, optionName [, valueRef [, indent]]])
func sourcifyOption(node any, args ...any) (string, error) {
	v, err := toValue(node)
	if err != nil {
		return "", fmt.Errorf("sourcifyOption: %w", err)
	}
	name, ref, indent := "", "NULL", codegen.DefaultOptionValueIndent
	if len(args) > 0 {
		name = textArg(args[0])
	}
	if len(args) > 1 {
		ref = textArg(args[1])
	}
	if len(args) > 2 {
		if indent, err = indentArg(args[2]); err != nil {
			return "", fmt.Errorf("sourcifyOption: %w", err)
		}
	}
	return codegen.Print(codegen.OptionValue(v, name, ref, indent)), nil
}

// resultsify(results [, indent [, root]]). A results document is rendered as
// the root class unless root is given explicitly.
func resultsify(node any, args ...any) (string, error) {
	var (
		r    *analysis.Result
		root bool
	)
	switch n := node.(type) {
	case *analysis.Results:
		r, root = n.Root(), true
	case *analysis.Result:
		r = n
	default:
		v, err := toValue(node)
		if err != nil {
			return "", fmt.Errorf("resultsify: %w", err)
		}
		m, ok := v.AsMap()
		if !ok {
			return "", fmt.Errorf("resultsify: expected a result element, got %s", v.Kind())
		}
		r = analysis.NewResult(m)
	}

	var indent codegen.Indent
	if len(args) > 0 {
		var err error
		if indent, err = indentArg(args[0]); err != nil {
			return "", fmt.Errorf("resultsify: %w", err)
		}
	}
	if len(args) > 1 {
		b, ok := args[1].(bool)
		if !ok {
			return "", fmt.Errorf("resultsify: root must be a boolean, got %T", args[1])
		}
		root = b
	}
	return codegen.Print(codegen.Result(r, indent, root)), nil
}

// sourcifyResults(value [, indent])
func sourcifyResults(node any, args ...any) (string, error) {
	v, err := toValue(node)
	if err != nil {
		return "", fmt.Errorf("sourcifyResults: %w", err)
	}
	indent := codegen.DefaultResultValueIndent
	if len(args) > 0 {
		if indent, err = indentArg(args[0]); err != nil {
			return "", fmt.Errorf("sourcifyResults: %w", err)
		}
	}
	return codegen.Print(codegen.ResultValue(v, indent)), nil
}

// wrap(text [, width [, indent]])
func wrap(text any, args ...any) (string, error) {
	width, indent := uint(DefaultWrapWidth), DefaultWrapIndent
	if len(args) > 0 {
		n, err := intArg(args[0])
		if err != nil || n < 0 {
			return "", fmt.Errorf("wrap: invalid width %v", args[0])
		}
		width = uint(n)
	}
	if len(args) > 1 {
		indent = textArg(args[1])
	}
	return Wrap(textArg(text), width, indent), nil
}

func toValue(node any) (value.Value, error) {
	switch n := node.(type) {
	case nil:
		return value.Null(), nil
	case value.Value:
		return n, nil
	case *value.Map:
		return value.MapValue(n), nil
	case *analysis.Option:
		return value.MapValue(n.Props()), nil
	case *analysis.Result:
		return value.MapValue(n.Props()), nil
	case string:
		return value.String(n), nil
	case bool:
		return value.Bool(n), nil
	case int:
		return value.Number(float64(n)), nil
	case int64:
		return value.Number(float64(n)), nil
	case float64:
		return value.Number(n), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported value of type %T", node)
	}
}

// indentArg accepts a column count or, as in hand-written templates, a
// string of spaces.
func indentArg(arg any) (codegen.Indent, error) {
	if s, ok := arg.(string); ok {
		return codegen.Indent(len(s)), nil
	}
	n, err := intArg(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid indent %v", arg)
	}
	return codegen.Indent(n), nil
}

func intArg(arg any) (int, error) {
	switch n := arg.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case float64:
		return int(n), nil
	case codegen.Indent:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", arg)
	}
}

func textArg(arg any) string {
	switch t := arg.(type) {
	case nil:
		return ""
	case string:
		return t
	case value.Value:
		return t.Text()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
