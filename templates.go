package jamovicompiler

import (
	"io/fs"

	"github.com/jonathon-love/jamovi-compiler/pkg/render"
)

// EmbeddedTemplates exposes the built-in options and results templates so
// callers can reuse or extend them without importing pkg/render directly.
func EmbeddedTemplates() fs.FS {
	return render.BuiltinFS()
}
