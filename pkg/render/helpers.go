package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mitchellh/go-wordwrap"
)

// Defaults used by Wrap when called from templates without arguments.
const (
	DefaultWrapWidth  = 50
	DefaultWrapIndent = "  "
)

var greek = strings.NewReplacer(
	"ω", "omega",
	"α", "alpha",
	"η", "eta",
	"χ", "X",
)

// Asciify spells out the Greek letters that commonly appear in analysis
// titles so they survive in ASCII-only R sources.
func Asciify(text string) string {
	return greek.Replace(text)
}

// Wrap folds text into lines of at most width characters (single words
// longer than width are kept whole), prefixing every line with indent.
func Wrap(text string, width uint, indent string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if width == 0 {
		width = DefaultWrapWidth
	}
	lines := strings.Split(wordwrap.WrapString(strings.Join(strings.Fields(text), " "), width), "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

// StripHTML removes all markup from text, leaving its character content.
func StripHTML(text string) string {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(strictPolicy.Sanitize(text))
}
