// Package compiler turns a jamovi analysis definition (<name>.a.yaml) and
// its optional results definition (<name>.r.yaml) into generated R source.
//
// A compilation loads both documents, checks their compatibility tokens
// against the supported version, validates every node against the schema
// registry, renders the requested templates and writes the output in one
// atomic step. Failures are reported as *Error values carrying a Kind.
package compiler
