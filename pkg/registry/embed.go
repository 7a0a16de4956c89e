package registry

import (
	"embed"
	"io/fs"
)

//go:embed schemas/*.yaml
var embeddedSchemas embed.FS

// EmbeddedFS returns the bundled schema files. Pass it to Load to build the
// default registry.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSchemas, "schemas")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
