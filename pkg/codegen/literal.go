package codegen

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/jonathon-love/jamovi-compiler/pkg/value"
)

const (
	// Namespace prefixes every generated runtime constructor.
	Namespace = "jmvcore"

	rNull  = "NULL"
	rTrue  = "TRUE"
	rFalse = "FALSE"
)

// scalar renders null, booleans, numbers and strings. ok is false for lists
// and maps.
func scalar(v value.Value) (Doc, bool) {
	switch v.Kind() {
	case value.KindNull:
		return Text(rNull), true
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return Text(rTrue), true
		}
		return Text(rFalse), true
	case value.KindNumber:
		n, _ := v.AsNumber()
		return Text(value.FormatNumber(n)), true
	case value.KindString:
		s, _ := v.AsString()
		return Text(Quote(s)), true
	default:
		return nil, false
	}
}

// Quote renders s as a double-quoted JSON string literal. Characters outside
// printable ASCII are escaped as \uXXXX (surrogate pairs above the BMP) so
// the output is plain ASCII.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				b.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%04X\u%04X`, hi, lo)
			default:
				fmt.Fprintf(&b, `\u%04X`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
