// Package value models analysis and results documents as ordered dynamic
// values. Mapping key order is significant to code generation, so documents
// are decoded from yaml.Node trees instead of plain Go maps.
package value
