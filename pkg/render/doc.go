// Package render binds analysis documents and the code generation helpers
// into templates and writes the result.
package render
