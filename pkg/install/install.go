package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/copy"

	"github.com/jonathon-love/jamovi-compiler/pkg/value"
)

var (
	// ErrDependencies is returned when installing DESCRIPTION dependencies
	// fails.
	ErrDependencies = errors.New("failed to install dependencies")
	// ErrBuild is returned when R CMD INSTALL fails.
	ErrBuild = errors.New("could not build module")
)

// Repositories consulted for dependencies, in order.
var Repositories = []string{"https://repo.jamovi.org", "https://cran.r-project.org"}

// Included lists packages shipped with R (base and recommended) or bundled
// with jamovi. They are never installed.
var Included = []string{
	// base
	"R", "base", "compiler", "datasets", "graphics", "grDevices", "grid",
	"methods", "parallel", "splines", "stats", "stats4", "tcltk", "utils",
	"tools",
	// recommended
	"KernSmooth", "MASS", "Matrix", "boot", "class", "cluster", "codetools",
	"foreign", "lattice", "mgcv", "nlme", "nnet", "rpart", "spatial",
	"survival",
	// jamovi
	"jmvcore", "R6", "ggplot2",
}

// Installer builds module R packages.
type Installer struct {
	runner   Runner
	logger   *log.Logger
	included map[string]struct{}
	platform string
}

// New constructs an Installer.
func New(options ...Option) *Installer {
	i := &Installer{
		included: make(map[string]struct{}, len(Included)),
		platform: defaultPlatform(),
	}
	for _, name := range Included {
		i.included[name] = struct{}{}
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	if i.runner == nil {
		i.runner = ExecRunner{}
	}
	if i.logger == nil {
		i.logger = log.New(io.Discard, "", 0)
	}
	return i
}

// Request describes one installation.
type Request struct {
	// SourceDir is the module source tree holding DESCRIPTION and NAMESPACE.
	SourceDir string
	// ModuleDir receives the built library under R/.
	ModuleDir string
	// RExe is the R executable.
	RExe string
	// RHome, when set, is exported as R_HOME and selects the INSTALL form.
	RHome string
	// RLibs is exported as R_LIBS_SITE.
	RLibs string
	// Analyses are the analysis names exported from NAMESPACE. When nil they
	// are discovered from SourceDir/jamovi/*.a.yaml.
	Analyses []string
}

// BuildDir returns the library directory packages are installed into.
func BuildDir(sourceDir string) string {
	return filepath.Join(sourceDir, "build", "R")
}

// Install runs the whole installation for req.
func (i *Installer) Install(ctx context.Context, req Request) error {
	if req.SourceDir == "" || req.ModuleDir == "" {
		return errors.New("install: source and module directories are required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	buildDir := BuildDir(req.SourceDir)
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("install: create build dir: %w", err)
	}

	missing, err := i.missing(req.SourceDir, buildDir)
	if err != nil {
		return err
	}
	env := environment(os.Environ(), buildDir, req)

	if len(missing) > 0 {
		i.logger.Printf("Installing dependencies")
		i.logger.Printf("%s", strings.Join(missing, ", "))
		if err := i.runner.Run(ctx, Command{
			Name: req.RExe,
			Args: []string{"--slave", "-e", installExpr(missing, buildDir)},
			Env:  env,
		}); err != nil {
			return fmt.Errorf("install: %w: %v", ErrDependencies, err)
		}
	}

	analyses := req.Analyses
	if analyses == nil {
		if analyses, err = DiscoverAnalyses(req.SourceDir); err != nil {
			return err
		}
	}

	staging, err := os.MkdirTemp("", "jmc-install-*")
	if err != nil {
		return fmt.Errorf("install: create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := stage(req.SourceDir, staging, analyses); err != nil {
		return err
	}

	i.logger.Printf("Building module")
	if err := i.runner.Run(ctx, i.buildCommand(req, buildDir, staging, env)); err != nil {
		return fmt.Errorf("install: %w: %v", ErrBuild, err)
	}

	if err := copy.Copy(buildDir, filepath.Join(req.ModuleDir, "R")); err != nil {
		return fmt.Errorf("install: copy library: %w", err)
	}
	return nil
}

// missing returns the declared dependencies that are neither provided by the
// runtime nor already present in buildDir.
func (i *Installer) missing(sourceDir, buildDir string) ([]string, error) {
	desc, err := os.ReadFile(filepath.Join(sourceDir, "DESCRIPTION"))
	if err != nil {
		return nil, fmt.Errorf("install: read DESCRIPTION: %w", err)
	}
	entries, err := os.ReadDir(buildDir)
	if err != nil {
		return nil, fmt.Errorf("install: list build dir: %w", err)
	}
	installed := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		installed[entry.Name()] = struct{}{}
	}

	var out []string
	for _, name := range ParseDependencies(string(desc)) {
		if _, ok := i.included[name]; ok {
			continue
		}
		if _, ok := installed[name]; ok {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func (i *Installer) buildCommand(req Request, buildDir, staging string, env []string) Command {
	library := "--library=" + buildDir
	switch {
	case i.platform == "darwin":
		return Command{Name: filepath.Join(req.RHome, "bin", "INSTALL"), Args: []string{library, staging}, Env: env}
	case req.RHome != "":
		return Command{Name: req.RExe, Args: []string{"CMD", "INSTALL", library, staging}, Env: env}
	default:
		return Command{Name: "R", Args: []string{"CMD", "INSTALL", library, staging}, Env: env}
	}
}

func installExpr(packages []string, buildDir string) string {
	expr := fmt.Sprintf(
		"utils::install.packages(c('%s'), lib='%s', repos=c('%s'), INSTALL_opts=c('--no-data', '--no-help', '--no-demo'))",
		strings.Join(packages, "','"),
		buildDir,
		strings.Join(Repositories, "', '"),
	)
	return strings.ReplaceAll(expr, `\`, "/")
}

// environment returns base with the R library variables overridden.
func environment(base []string, buildDir string, req Request) []string {
	overrides := map[string]string{
		"R_LIBS":      buildDir,
		"R_LIBS_SITE": req.RLibs,
		"R_LIBS_USER": "notthere",
	}
	if req.RHome != "" {
		overrides["R_HOME"] = req.RHome
	}

	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[key]; ok {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out = append(out, key+"="+overrides[key])
	}
	return out
}

// stage copies the sources, minus the build directory, into dir and appends
// the analysis exports to its NAMESPACE.
func stage(sourceDir, dir string, analyses []string) error {
	build := filepath.Join(sourceDir, "build")
	err := copy.Copy(sourceDir, dir, copy.Options{
		Skip: func(_ os.FileInfo, src, _ string) (bool, error) {
			return src == build, nil
		},
	})
	if err != nil {
		return fmt.Errorf("install: stage sources: %w", err)
	}

	var exports strings.Builder
	for _, name := range analyses {
		fmt.Fprintf(&exports, "\nexport(%s)\nexport(%sClass)\nexport(%sOptions)\n", name, name, name)
	}

	f, err := os.OpenFile(filepath.Join(dir, "NAMESPACE"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("install: open NAMESPACE: %w", err)
	}
	if _, err := io.WriteString(f, exports.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("install: append NAMESPACE: %w", err)
	}
	return f.Close()
}

// DiscoverAnalyses returns the names declared by sourceDir/jamovi/*.a.yaml,
// sorted by file name. Files without a name fall back to the file stem.
func DiscoverAnalyses(sourceDir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(sourceDir, "jamovi", "*.a.yaml"))
	if err != nil {
		return nil, fmt.Errorf("install: list analyses: %w", err)
	}
	sort.Strings(paths)

	names := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("install: read %s: %w", filepath.Base(path), err)
		}
		doc, err := value.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("install: parse %s: %w", filepath.Base(path), err)
		}
		name, ok := doc.Get("name").AsString()
		if !ok || name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".a.yaml")
		}
		names = append(names, name)
	}
	return names, nil
}
