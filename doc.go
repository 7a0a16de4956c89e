// Package jamovicompiler compiles jamovi analysis definitions into R source.
//
// The top-level helpers wrap pkg/compiler for the common cases: Compile and
// Generate handle a single analysis document, Build compiles every analysis
// of a module source tree into its R/ directory.
package jamovicompiler
