package install

import (
	"regexp"
	"strings"
)

var (
	continuation = regexp.MustCompile(`\r?\n `)
	dependsField = regexp.MustCompile(`\nDepends\s*:\s*(.*)\r?\n`)
	importsField = regexp.MustCompile(`\nImports\s*:\s*(.*)\r?\n`)
	packageField = regexp.MustCompile(`(?m)^Package\s*:\s*([A-Za-z][A-Za-z0-9.]*)`)
	packageName  = regexp.MustCompile(`[A-Za-z][A-Za-z0-9._]*`)
)

// ParseDependencies returns the package names listed in the Depends and
// Imports fields of a DESCRIPTION file, in order and without duplicates.
// Version constraints are dropped; the R entry of Depends is kept and left
// for the caller to filter.
func ParseDependencies(desc string) []string {
	desc = continuation.ReplaceAllString(desc, " ")

	var out []string
	seen := make(map[string]struct{})
	for _, field := range []*regexp.Regexp{dependsField, importsField} {
		match := field.FindStringSubmatch(desc)
		if match == nil {
			continue
		}
		for _, name := range packageName.FindAllString(match[1], -1) {
			name = strings.TrimRight(name, ".")
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// ParsePackageName returns the Package field of a DESCRIPTION file, or ""
// when it has none.
func ParsePackageName(desc string) string {
	match := packageField.FindStringSubmatch(desc)
	if match == nil {
		return ""
	}
	return match[1]
}
