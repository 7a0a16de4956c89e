// Package registry holds the structural schemas used to validate analysis and
// results documents and their nodes. Schemas are OpenAPI 3 schema objects
// authored as YAML and validated with kin-openapi; the registry is built once
// and injected into validators as an immutable value.
package registry
