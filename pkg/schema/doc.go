// Package schema describes where jamovi analysis documents come from. The
// loader in internal/loader resolves a Source into raw bytes.
package schema
