package codegen

import "strings"

// Indent is an absolute indentation measured in columns.
type Indent int

// Unit is the indentation added per nesting level.
const Unit Indent = 4

// Add returns the indentation levels deeper.
func (i Indent) Add(levels int) Indent {
	return i + Indent(levels)*Unit
}

func (i Indent) String() string {
	if i <= 0 {
		return ""
	}
	return strings.Repeat(" ", int(i))
}

// Doc is a node of generated source.
type Doc interface {
	print(b *strings.Builder)
}

type text string

func (t text) print(b *strings.Builder) { b.WriteString(string(t)) }

type line Indent

func (l line) print(b *strings.Builder) {
	b.WriteByte('\n')
	b.WriteString(Indent(l).String())
}

type concat []Doc

func (c concat) print(b *strings.Builder) {
	for _, d := range c {
		if d != nil {
			d.print(b)
		}
	}
}

// Text emits s verbatim.
func Text(s string) Doc { return text(s) }

// Line emits a newline followed by indent.
func Line(indent Indent) Doc { return line(indent) }

// Concat emits docs in order.
func Concat(docs ...Doc) Doc { return concat(docs) }

// Join emits docs separated by sep.
func Join(sep Doc, docs []Doc) Doc {
	out := make(concat, 0, len(docs)*2)
	for i, d := range docs {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return out
}

// Print renders d to a string.
func Print(d Doc) string {
	var b strings.Builder
	if d != nil {
		d.print(&b)
	}
	return b.String()
}
