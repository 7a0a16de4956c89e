package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/jonathon-love/jamovi-compiler/internal/loader"
	"github.com/jonathon-love/jamovi-compiler/pkg/analysis"
	"github.com/jonathon-love/jamovi-compiler/pkg/registry"
	"github.com/jonathon-love/jamovi-compiler/pkg/render"
	"github.com/jonathon-love/jamovi-compiler/pkg/render/template"
	"github.com/jonathon-love/jamovi-compiler/pkg/schema"
	"github.com/jonathon-love/jamovi-compiler/pkg/validate"
	"github.com/jonathon-love/jamovi-compiler/pkg/value"
	"github.com/jonathon-love/jamovi-compiler/pkg/version"
)

// Document file suffixes.
const (
	AnalysisSuffix = ".a.yaml"
	ResultsSuffix  = ".r.yaml"
)

// Loader resolves a document source into its raw payload. Missing documents
// must satisfy errors.Is(err, fs.ErrNotExist).
type Loader interface {
	Load(ctx context.Context, src schema.Source) ([]byte, error)
}

// Compiler runs the load, gate, validate and render pipeline. It holds no
// state between compilations and is safe for sequential reuse.
type Compiler struct {
	registry  *registry.Registry
	gate      version.Gate
	loader    Loader
	engine    template.TemplateRenderer
	templates *render.Registry

	validator     *validate.Validator
	renderer      *render.Renderer
	initialiseErr error
}

// New constructs a Compiler. Missing dependencies are initialised with the
// built-in implementations.
func New(options ...Option) *Compiler {
	c := &Compiler{gate: version.Supported}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.applyDefaults()
	return c
}

func (c *Compiler) applyDefaults() {
	if c.registry == nil {
		reg, err := registry.Default()
		if err != nil {
			c.initialiseErr = fmt.Errorf("compiler: load schemas: %w", err)
			return
		}
		c.registry = reg
	}
	if c.loader == nil {
		c.loader = loader.New(nil)
	}
	renderer, err := render.New(c.engine, c.templates)
	if err != nil {
		c.initialiseErr = fmt.Errorf("compiler: %w", err)
		return
	}
	c.renderer = renderer
	c.templates = renderer.Templates()
	c.validator = validate.New(c.registry)
}

// Templates returns the template registry requests resolve names against.
func (c *Compiler) Templates() *render.Registry {
	return c.templates
}

// Request describes one compilation.
type Request struct {
	// PackageName is bound into templates as packageName.
	PackageName string

	// Analysis locates the analysis document.
	Analysis schema.Source

	// Results locates the results document. When nil it is looked up next to
	// the analysis (<name>.r.yaml); a missing file is synthesized.
	Results schema.Source

	// Templates names registered templates rendered in order and
	// concatenated. Defaults to the options template.
	Templates []string

	// TemplateBody, when set, is rendered instead of Templates.
	TemplateBody string

	// Out is the output path. Required by Compile.
	Out string
}

// Documents are the loaded and validated inputs of a compilation.
type Documents struct {
	Analysis *analysis.Analysis
	Results  *analysis.Results
}

// Compile renders the request and writes the output in one atomic step.
// Nothing is written unless every earlier stage succeeds.
func (c *Compiler) Compile(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Out) == "" {
		return errors.New("compiler: output path is required")
	}
	out, err := c.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := render.WriteFile(req.Out, []byte(out), 0o644); err != nil {
		return newError(KindWrite, filepath.Base(req.Out), err, "%v", err)
	}
	return nil
}

// Generate runs the pipeline and returns the rendered output without writing
// anything.
func (c *Compiler) Generate(ctx context.Context, req Request) (string, error) {
	docs, err := c.Load(ctx, req)
	if err != nil {
		return "", err
	}

	in := render.Input{PackageName: req.PackageName, Analysis: docs.Analysis, Results: docs.Results}
	file := schema.Base(req.Analysis)

	if req.TemplateBody != "" {
		out, err := c.renderer.RenderString(req.TemplateBody, in)
		if err != nil {
			return "", newError(KindRender, file, err, "%v", err)
		}
		return out, nil
	}

	names := req.Templates
	if len(names) == 0 {
		names = []string{render.TemplateOptions}
	}
	var b strings.Builder
	for _, name := range names {
		out, err := c.renderer.Render(name, in)
		if err != nil {
			return "", newError(KindRender, file, err, "%v", err)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// Load reads, gates and validates the analysis and results documents of req.
func (c *Compiler) Load(ctx context.Context, req Request) (*Documents, error) {
	if ctx == nil {
		return nil, errors.New("compiler: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.initialiseErr != nil {
		return nil, c.initialiseErr
	}
	if req.Analysis == nil {
		return nil, errors.New("compiler: analysis source is required")
	}

	analysisFile := schema.Base(req.Analysis)
	doc, err := c.read(ctx, req.Analysis, analysisFile)
	if err != nil {
		return nil, err
	}
	if err := c.gateCheck(doc, analysis.AnalysisVersionKey, analysisFile); err != nil {
		return nil, err
	}
	a := analysis.NewAnalysis(doc)
	if err := c.validator.Analysis(a); err != nil {
		return nil, newError(KindSchemaViolation, analysisFile, err, "%v", err)
	}

	resultsSrc := req.Results
	if resultsSrc == nil {
		resultsSrc = ResultsSource(req.Analysis)
	}
	results, err := c.loadResults(ctx, resultsSrc, a)
	if err != nil {
		return nil, err
	}
	return &Documents{Analysis: a, Results: results}, nil
}

func (c *Compiler) loadResults(ctx context.Context, src schema.Source, a *analysis.Analysis) (*analysis.Results, error) {
	file := schema.Base(src)
	data, err := c.loader.Load(ctx, src)
	if errors.Is(err, fs.ErrNotExist) {
		return analysis.SynthesizeResults(a), nil
	}
	if err != nil {
		return nil, newError(KindRead, file, err, "%v", err)
	}
	doc, err := decode(data, file)
	if err != nil {
		return nil, err
	}
	if err := c.gateCheck(doc, analysis.ResultsVersionKey, file); err != nil {
		return nil, err
	}
	r := analysis.NewResults(doc)
	if err := c.validator.Results(r); err != nil {
		return nil, newError(KindSchemaViolation, file, err, "%v", err)
	}
	return r, nil
}

func (c *Compiler) read(ctx context.Context, src schema.Source, file string) (*value.Map, error) {
	data, err := c.loader.Load(ctx, src)
	if err != nil {
		return nil, newError(KindRead, file, err, "%v", err)
	}
	return decode(data, file)
}

func decode(data []byte, file string) (*value.Map, error) {
	v, err := value.Decode(data)
	if err != nil {
		return nil, newError(KindMalformed, file, err, "%v", err)
	}
	m, _ := v.AsMap()
	return m, nil
}

// gateCheck applies the compatibility gate to the token stored under key. A
// document that is not a mapping has no token.
func (c *Compiler) gateCheck(doc *value.Map, key, file string) error {
	if doc == nil {
		return newError(KindMalformed, file, nil, "no '%s' present", key)
	}
	token, ok := doc.Lookup(key).AsString()
	if !ok {
		return newError(KindMalformed, file, nil, "no '%s' present", key)
	}
	if _, err := c.gate.Check(token); err != nil {
		if errors.Is(err, version.ErrUnsupported) {
			return newError(KindUnsupportedVersion, file, err, "requires a newer jamovi-compiler")
		}
		return newError(KindMalformed, file, err, "malformed '%s' value %q", key, token)
	}
	return nil
}

// ResultsSource returns the conventional results document next to an
// analysis document: ttest.a.yaml pairs with ttest.r.yaml.
func ResultsSource(analysisSrc schema.Source) schema.Source {
	base := schema.Base(analysisSrc)
	name := strings.TrimSuffix(base, AnalysisSuffix)
	if name == base {
		name = strings.TrimSuffix(base, path.Ext(base))
	}
	return schema.Sibling(analysisSrc, name+ResultsSuffix)
}
