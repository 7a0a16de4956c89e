// Package analysis holds the typed view of analysis (.a.yaml) and results
// (.r.yaml) definitions. Nodes keep their raw properties in declaration order
// so generated code can pass them through verbatim, while structural dispatch
// uses the closed OptionKind and ResultKind enumerations.
package analysis
