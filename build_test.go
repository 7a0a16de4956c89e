package jamovicompiler_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	jamovicompiler "github.com/jonathon-love/jamovi-compiler"
	"github.com/jonathon-love/jamovi-compiler/pkg/compiler"
	"github.com/jonathon-love/jamovi-compiler/pkg/render"
	"github.com/jonathon-love/jamovi-compiler/pkg/scaffold"
	"github.com/jonathon-love/jamovi-compiler/pkg/testsupport"
)

const description = "Package: jmvdemo\nTitle: Demo analyses\nVersion: 1.0.0\nDepends: R (>= 3.2)\n"

const anovaAnalysis = `name: anova
title: One-Way ANOVA
jas: "1.1"
options:
  - name: data
    type: Data
  - name: welch
    type: Bool
    default: true
`

func newModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "DESCRIPTION", description)
	testsupport.WriteFile(t, dir, "jamovi/anova.a.yaml", anovaAnalysis)
	if _, err := scaffold.Write(filepath.Join(dir, "jamovi"), scaffold.Answers{
		Name:  "ttest",
		Title: "T-Test",
		Table: true,
	}); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	return dir
}

func TestBuild_WritesHeadersInOrder(t *testing.T) {
	dir := newModule(t)

	written, err := jamovicompiler.Build(testsupport.Context(), jamovicompiler.BuildRequest{SourceDir: dir})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{
		filepath.Join(dir, "R", "anova.h.R"),
		filepath.Join(dir, "R", "ttest.h.R"),
	}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Fatalf("written paths mismatch (-want +got):\n%s", diff)
	}

	anova := testsupport.ReadFile(t, want[0])
	for _, fragment := range []string{
		"anovaOptions <- if",
		`package="jmvdemo"`,
		"welch = TRUE,",
		"anovaResults <- if",
	} {
		if !strings.Contains(anova, fragment) {
			t.Fatalf("anova header missing %q:\n%s", fragment, anova)
		}
	}

	ttest := testsupport.ReadFile(t, want[1])
	if !strings.Contains(ttest, `private$..table <- jmvcore::Table$new(`) {
		t.Fatalf("ttest header missing starter table:\n%s", ttest)
	}
}

func TestBuild_PackageOverrideAndTemplates(t *testing.T) {
	dir := newModule(t)

	written, err := jamovicompiler.Build(testsupport.Context(), jamovicompiler.BuildRequest{
		SourceDir:   dir,
		PackageName: "other",
		Templates:   []string{render.TemplateOptions},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out := testsupport.ReadFile(t, written[0])
	if !strings.Contains(out, `package="other"`) {
		t.Fatalf("package override ignored:\n%s", out)
	}
	if strings.Contains(out, "anovaResults") {
		t.Fatalf("results template must not be rendered:\n%s", out)
	}
}

func TestBuild_StopsOnFirstFailure(t *testing.T) {
	dir := newModule(t)
	testsupport.WriteFile(t, dir, "jamovi/anova.a.yaml", "name: anova\ntitle: x\njas: \"9.0\"\noptions: []\n")

	written, err := jamovicompiler.Build(testsupport.Context(), jamovicompiler.BuildRequest{SourceDir: dir})
	if !compiler.IsKind(err, compiler.KindUnsupportedVersion) {
		t.Fatalf("expected unsupported version, got %v", err)
	}
	if len(written) != 0 {
		t.Fatalf("expected no headers written, got %v", written)
	}

	var ce *jamovicompiler.CompileError
	if !errors.As(err, &ce) || ce.File != "anova.a.yaml" {
		t.Fatalf("expected failure on anova.a.yaml, got %v", err)
	}
}

func TestBuild_RequiresPackageName(t *testing.T) {
	dir := t.TempDir()
	if _, err := jamovicompiler.Build(testsupport.Context(), jamovicompiler.BuildRequest{SourceDir: dir}); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected missing DESCRIPTION, got %v", err)
	}

	testsupport.WriteFile(t, dir, "DESCRIPTION", "Title: nothing\n")
	if _, err := jamovicompiler.Build(testsupport.Context(), jamovicompiler.BuildRequest{SourceDir: dir}); err == nil {
		t.Fatalf("expected error without a Package field")
	}

	if _, err := jamovicompiler.Build(testsupport.Context(), jamovicompiler.BuildRequest{}); err == nil {
		t.Fatalf("expected error without a source directory")
	}
}

func TestCompileAndGenerate(t *testing.T) {
	dir := newModule(t)
	path := filepath.Join(dir, "jamovi", "anova.a.yaml")
	out := filepath.Join(dir, "anova.h.R")

	if err := jamovicompiler.Compile(testsupport.Context(), "jmvdemo", path, out); err != nil {
		t.Fatalf("compile: %v", err)
	}
	compiled := testsupport.ReadFile(t, out)

	generated, err := jamovicompiler.Generate(testsupport.Context(), "jmvdemo", path, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if compiled != generated {
		t.Fatalf("compile and generate differ")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	for _, name := range []string{"options.tpl", "results.tpl"} {
		if _, err := fs.Stat(jamovicompiler.EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected %s in embedded templates: %v", name, err)
		}
	}
}
