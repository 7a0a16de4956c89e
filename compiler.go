package jamovicompiler

import (
	"context"

	"github.com/jonathon-love/jamovi-compiler/pkg/compiler"
	"github.com/jonathon-love/jamovi-compiler/pkg/install"
	"github.com/jonathon-love/jamovi-compiler/pkg/schema"
)

// CompileError aliases the typed compilation failure so callers can match on
// it without importing pkg/compiler.
type CompileError = compiler.Error

// Request aliases compiler.Request for callers driving the pipeline directly.
type Request = compiler.Request

// NewCompiler exposes the compiler constructor from the top-level module.
func NewCompiler(options ...compiler.Option) *compiler.Compiler {
	return compiler.New(options...)
}

// NewInstaller exposes the installer constructor from the top-level module.
func NewInstaller(options ...install.Option) *install.Installer {
	return install.New(options...)
}

// Compile renders the options class of the analysis document at path into
// out. The results document is looked up next to it and synthesized when
// missing. It is the simplest entry point for compiling a single analysis.
func Compile(ctx context.Context, packageName, path, out string, options ...compiler.Option) error {
	return compiler.New(options...).Compile(ctx, compiler.Request{
		PackageName: packageName,
		Analysis:    schema.SourceFromFile(path),
		Out:         out,
	})
}

// Generate renders the named templates for the analysis document at path and
// returns the output without writing anything.
func Generate(ctx context.Context, packageName, path string, templates []string, options ...compiler.Option) (string, error) {
	return compiler.New(options...).Generate(ctx, compiler.Request{
		PackageName: packageName,
		Analysis:    schema.SourceFromFile(path),
		Templates:   templates,
	})
}
