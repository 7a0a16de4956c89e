package loader

import (
	"context"
	"errors"
	"io/fs"

	"github.com/jonathon-love/jamovi-compiler/pkg/schema"
)

// Loader reads documents from disk or from an fs.FS depending on the source
// kind. Not-found failures satisfy errors.Is(err, fs.ErrNotExist).
type Loader struct {
	fs fs.FS
}

// New constructs a Loader. files backs SourceKindFS sources and may be nil
// when only file sources are used.
func New(files fs.FS) *Loader {
	return &Loader{fs: files}
}

// Load fetches the raw payload behind src.
func (l *Loader) Load(ctx context.Context, src schema.Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("loader: source is nil")
	}

	switch src.Kind() {
	case schema.SourceKindFile:
		return loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		return loadFromFS(ctx, l.fs, src.Location())
	default:
		return nil, errors.New("loader: unsupported source kind " + string(src.Kind()))
	}
}
