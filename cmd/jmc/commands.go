package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	jamovicompiler "github.com/jonathon-love/jamovi-compiler"
	"github.com/jonathon-love/jamovi-compiler/pkg/compiler"
	"github.com/jonathon-love/jamovi-compiler/pkg/install"
	"github.com/jonathon-love/jamovi-compiler/pkg/scaffold"
	"github.com/jonathon-love/jamovi-compiler/pkg/schema"
)

func runCompile(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "compile")
	pkg := fs.String("package", "", "R package name bound into the templates")
	analysisPath := fs.String("analysis", "", "analysis document (.a.yaml)")
	resultsPath := fs.String("results", "", "results document (.r.yaml); defaults to the sibling of -analysis")
	templates := fs.String("template", "options", "comma separated template names, or a template file path")
	out := fs.String("out", "", "output file")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "analysis", "out"); err != nil {
		return err
	}

	c := compiler.New()
	req := compiler.Request{
		PackageName: *pkg,
		Analysis:    schema.SourceFromFile(*analysisPath),
		Out:         *out,
	}
	if *resultsPath != "" {
		req.Results = schema.SourceFromFile(*resultsPath)
	}
	if err := resolveTemplates(c, *templates, &req); err != nil {
		return err
	}
	if err := c.Compile(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "wrote %s\n", *out)
	return nil
}

// resolveTemplates binds -template onto req. Registered names are rendered
// in order; a single unregistered entry is read as a template file.
func resolveTemplates(c *compiler.Compiler, flagValue string, req *compiler.Request) error {
	var names []string
	for _, name := range strings.Split(flagValue, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}

	for _, name := range names {
		if !c.Templates().Has(name) {
			if len(names) > 1 {
				return fmt.Errorf("unknown template %q", name)
			}
			body, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}
			req.TemplateBody = string(body)
			return nil
		}
	}
	req.Templates = names
	return nil
}

func runBuild(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "build")
	src := fs.String("src", ".", "module source directory")
	pkg := fs.String("package", "", "R package name; defaults to the DESCRIPTION Package field")
	if err := parse(fs, args); err != nil {
		return err
	}

	written, err := jamovicompiler.Build(ctx, jamovicompiler.BuildRequest{
		SourceDir:   *src,
		PackageName: *pkg,
	})
	for _, path := range written {
		fmt.Fprintf(env.stdout, "wrote %s\n", path)
	}
	return err
}

func runInstall(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "install")
	src := fs.String("src", ".", "module source directory")
	module := fs.String("module", "", "module directory receiving R/")
	rexe := fs.String("rexe", "R", "R executable")
	rhome := fs.String("rhome", "", "R home directory")
	rlibs := fs.String("rlibs", "", "site library path exported as R_LIBS_SITE")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "module"); err != nil {
		return err
	}

	installer := install.New(
		install.WithRunner(install.ExecRunner{Stdout: env.stderr, Stderr: env.stderr}),
		install.WithLogger(log.New(env.stderr, "", 0)),
	)
	err := installer.Install(ctx, install.Request{
		SourceDir: *src,
		ModuleDir: *module,
		RExe:      *rexe,
		RHome:     *rhome,
		RLibs:     *rlibs,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "installed into %s\n", *module)
	return nil
}

func runCreate(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "create")
	dir := fs.String("dir", "jamovi", "directory receiving the analysis documents")
	if err := parse(fs, args); err != nil {
		return err
	}

	paths, err := scaffold.New().Create(ctx, *dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "wrote %s\nwrote %s\n", paths.Analysis, paths.Results)
	return nil
}
