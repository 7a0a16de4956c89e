// Package template defines the engine-agnostic renderer contract used to
// produce generated R sources. The pongo subpackage provides the default
// pongo2-backed implementation.
package template
