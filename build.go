package jamovicompiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathon-love/jamovi-compiler/pkg/compiler"
	"github.com/jonathon-love/jamovi-compiler/pkg/install"
	"github.com/jonathon-love/jamovi-compiler/pkg/render"
	"github.com/jonathon-love/jamovi-compiler/pkg/schema"
)

// HeaderSuffix is appended to the analysis name to form the generated header
// file under R/.
const HeaderSuffix = ".h.R"

// BuildRequest describes a whole-module build.
type BuildRequest struct {
	// SourceDir is the module source tree holding DESCRIPTION and jamovi/.
	SourceDir string

	// PackageName overrides the Package field read from DESCRIPTION.
	PackageName string

	// Templates rendered into each header, in order. Defaults to the options
	// and results templates.
	Templates []string
}

// Build compiles every jamovi/*.a.yaml document of the module into
// R/<name>.h.R and returns the written paths in file name order. The first
// failing analysis stops the build; headers already written are kept.
func Build(ctx context.Context, req BuildRequest, options ...compiler.Option) ([]string, error) {
	if strings.TrimSpace(req.SourceDir) == "" {
		return nil, errors.New("jamovicompiler: source directory is required")
	}

	pkg := req.PackageName
	if pkg == "" {
		desc, err := os.ReadFile(filepath.Join(req.SourceDir, "DESCRIPTION"))
		if err != nil {
			return nil, fmt.Errorf("jamovicompiler: read DESCRIPTION: %w", err)
		}
		pkg = install.ParsePackageName(string(desc))
		if pkg == "" {
			return nil, errors.New("jamovicompiler: DESCRIPTION has no Package field")
		}
	}

	templates := req.Templates
	if len(templates) == 0 {
		templates = []string{render.TemplateOptions, render.TemplateResults}
	}

	docs, err := filepath.Glob(filepath.Join(req.SourceDir, "jamovi", "*"+compiler.AnalysisSuffix))
	if err != nil {
		return nil, fmt.Errorf("jamovicompiler: list analyses: %w", err)
	}
	sort.Strings(docs)

	outDir := filepath.Join(req.SourceDir, "R")
	if len(docs) > 0 {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("jamovicompiler: create %s: %w", outDir, err)
		}
	}

	c := compiler.New(options...)
	written := make([]string, 0, len(docs))
	for _, doc := range docs {
		stem := strings.TrimSuffix(filepath.Base(doc), compiler.AnalysisSuffix)
		out := filepath.Join(outDir, stem+HeaderSuffix)
		err := c.Compile(ctx, compiler.Request{
			PackageName: pkg,
			Analysis:    schema.SourceFromFile(doc),
			Templates:   templates,
			Out:         out,
		})
		if err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}
