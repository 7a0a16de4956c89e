// Package codegen serializes options and results trees into R source for the
// jmvcore runtime. Serializers build a small document tree of text runs and
// indented line breaks; Print flattens it in a separate pass so whitespace is
// a pure function of the tree and the starting indent.
package codegen
