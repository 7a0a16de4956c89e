package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jonathon-love/jamovi-compiler/pkg/render"
	"github.com/jonathon-love/jamovi-compiler/pkg/schema"
	"github.com/jonathon-love/jamovi-compiler/pkg/testsupport"
	"github.com/jonathon-love/jamovi-compiler/pkg/version"
)

const ttestAnalysis = `name: ttest
title: Independent Samples T-Test
jas: "1.1"
options:
  - name: data
    type: Data
  - name: alpha
    type: Number
    default: 0.05
    min: 0
    max: 1
`

const ttestResults = `name: ttest
title: Independent Samples T-Test
jrs: "1.1"
items:
  - name: ttest
    title: T-Test
    type: Table
    columns:
      - name: stat
        title: t
  - name: plot
    type: Image
    width: 400
`

type fixture struct {
	dir      string
	analysis string
	out      string
}

func newFixture(t *testing.T, analysisSrc, resultsSrc string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:      dir,
		analysis: testsupport.WriteFile(t, dir, "jamovi/ttest.a.yaml", analysisSrc),
		out:      filepath.Join(dir, "ttest.h.R"),
	}
	if resultsSrc != "" {
		testsupport.WriteFile(t, dir, "jamovi/ttest.r.yaml", resultsSrc)
	}
	return f
}

func (f fixture) request(templates ...string) Request {
	return Request{
		PackageName: "jmvdemo",
		Analysis:    schema.SourceFromFile(f.analysis),
		Templates:   templates,
		Out:         f.out,
	}
}

func TestCompile_WritesOptionsAndResults(t *testing.T) {
	f := newFixture(t, ttestAnalysis, ttestResults)

	err := New().Compile(testsupport.Context(), f.request(render.TemplateOptions, render.TemplateResults))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	out := testsupport.ReadFile(t, f.out)
	assertOrdered(t, out,
		"ttestOptions <- if",
		`package="jmvdemo"`,
		"ttestResults <- if",
		`private$..ttest <- jmvcore::Table$new(`,
		`private$..plot <- jmvcore::Image$new(`,
		"self$add(private$..ttest)",
		"self$add(private$..plot)",
	)
}

func TestCompile_SynthesizesMissingResults(t *testing.T) {
	f := newFixture(t, ttestAnalysis, "")

	docs, err := New().Load(testsupport.Context(), f.request())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if docs.Results.Name != "ttest" || docs.Results.Title != "Independent Samples T-Test" {
		t.Fatalf("unexpected synthesized results %+v", docs.Results)
	}
	if v, _ := docs.Results.Version(); v != "1.0" || len(docs.Results.Items) != 0 {
		t.Fatalf("expected empty 1.0 results, got %q with %d items", v, len(docs.Results.Items))
	}

	out, err := New().Generate(testsupport.Context(), f.request(render.TemplateResults))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, `title="Independent Samples T-Test")}))`) {
		t.Fatalf("expected empty root class, got:\n%s", out)
	}
}

func TestCompile_VersionFailures(t *testing.T) {
	cases := []struct {
		name    string
		jas     string
		kind    Kind
		message string
	}{
		{"missing", "", KindMalformed, "no 'jas' present"},
		{"not a string", "jas: 1.1\n", KindMalformed, "no 'jas' present"},
		{"malformed", "jas: \"1.x\"\n", KindMalformed, `malformed 'jas' value "1.x"`},
		{"newer minor", "jas: \"1.2\"\n", KindUnsupportedVersion, "requires a newer jamovi-compiler"},
		{"newer major", "jas: \"2.0\"\n", KindUnsupportedVersion, "requires a newer jamovi-compiler"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := strings.Replace(ttestAnalysis, "jas: \"1.1\"\n", tc.jas, 1)
			f := newFixture(t, src, "")

			err := New().Compile(testsupport.Context(), f.request())
			if !IsKind(err, tc.kind) {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
			want := "Unable to compile 'ttest.a.yaml':\n\t" + tc.message
			if err.Error() != want {
				t.Fatalf("message mismatch\nwant: %q\n got: %q", want, err.Error())
			}
		})
	}
}

func TestCompile_OlderMinorAccepted(t *testing.T) {
	src := strings.Replace(ttestAnalysis, `jas: "1.1"`, `jas: "1.0"`, 1)
	f := newFixture(t, src, "")
	if err := New().Compile(testsupport.Context(), f.request()); err != nil {
		t.Fatalf("compile: %v", err)
	}
}

func TestCompile_WithGate(t *testing.T) {
	src := strings.Replace(ttestAnalysis, `jas: "1.1"`, `jas: "1.2"`, 1)
	f := newFixture(t, src, "")
	if err := New(WithGate(version.Gate{Major: 1, Minor: 2})).Compile(testsupport.Context(), f.request()); err != nil {
		t.Fatalf("compile: %v", err)
	}
}

func TestCompile_ResultsVersionChecked(t *testing.T) {
	f := newFixture(t, ttestAnalysis, strings.Replace(ttestResults, "jrs: \"1.1\"\n", "", 1))

	err := New().Compile(testsupport.Context(), f.request())
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ce.Kind != KindMalformed || ce.File != "ttest.r.yaml" || ce.Message != "no 'jrs' present" {
		t.Fatalf("unexpected error %+v", ce)
	}
}

func TestCompile_SchemaViolation(t *testing.T) {
	src := strings.Replace(ttestAnalysis, "default: 0.05", "default: high", 1)
	f := newFixture(t, src, "")

	err := New().Compile(testsupport.Context(), f.request())
	if !IsKind(err, KindSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
	if prefix := "Unable to compile 'ttest.a.yaml':\n\talpha.default "; !strings.HasPrefix(err.Error(), prefix) {
		t.Fatalf("expected diagnostic rooted at the option name, got %q", err.Error())
	}
}

func TestCompile_ResultItemViolation(t *testing.T) {
	src := strings.Replace(ttestResults, "    columns:\n      - name: stat\n        title: t\n", "", 1)
	f := newFixture(t, ttestAnalysis, src)

	err := New().Compile(testsupport.Context(), f.request())
	if !IsKind(err, KindSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
	if !strings.Contains(err.Error(), "results.items[0]") {
		t.Fatalf("expected qualified item name, got %q", err.Error())
	}
}

func TestCompile_FailureLeavesOutputUntouched(t *testing.T) {
	src := strings.Replace(ttestAnalysis, `jas: "1.1"`, `jas: "9.9"`, 1)
	f := newFixture(t, src, "")
	testsupport.WriteFile(t, f.dir, "ttest.h.R", "previous")

	if err := New().Compile(testsupport.Context(), f.request()); err == nil {
		t.Fatalf("expected failure")
	}
	if got := testsupport.ReadFile(t, f.out); got != "previous" {
		t.Fatalf("output modified on failure: %q", got)
	}

	f2 := newFixture(t, ttestAnalysis, "")
	req := f2.request("missing-template")
	if err := New().Compile(testsupport.Context(), req); !IsKind(err, KindRender) {
		t.Fatalf("expected render failure, got %v", err)
	}
	if _, err := os.Stat(f2.out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output must not exist after a render failure: %v", err)
	}
}

func TestCompile_ResultsReadFailure(t *testing.T) {
	f := newFixture(t, ttestAnalysis, "")
	if err := os.MkdirAll(filepath.Join(f.dir, "jamovi", "ttest.r.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err := New().Compile(testsupport.Context(), f.request())
	if !IsKind(err, KindRead) {
		t.Fatalf("expected read failure, got %v", err)
	}
}

func TestCompile_MalformedDocument(t *testing.T) {
	f := newFixture(t, "name: [unterminated\n", "")
	if err := New().Compile(testsupport.Context(), f.request()); !IsKind(err, KindMalformed) {
		t.Fatalf("expected malformed failure, got %v", err)
	}

	f = newFixture(t, "", "")
	if err := New().Compile(testsupport.Context(), f.request()); !IsKind(err, KindMalformed) {
		t.Fatalf("expected malformed failure for empty document, got %v", err)
	}
}

func TestGenerate_FSSourcesAndInlineTemplate(t *testing.T) {
	files := fstest.MapFS{
		"jamovi/ttest.a.yaml": {Data: []byte(ttestAnalysis)},
		"jamovi/ttest.r.yaml": {Data: []byte(ttestResults)},
	}
	c := New(WithFS(files))

	out, err := c.Generate(testsupport.Context(), Request{
		PackageName:  "jmvdemo",
		Analysis:     schema.SourceFromFS("jamovi/ttest.a.yaml"),
		TemplateBody: "{{ packageName }}:{{ analysis.Name }}:{% for item in results.Items %}{{ item.Name }};{% endfor %}",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "jmvdemo:ttest:ttest;plot;" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCompile_RequestErrors(t *testing.T) {
	c := New()
	if err := c.Compile(testsupport.Context(), Request{Analysis: schema.SourceFromFile("x.a.yaml")}); err == nil {
		t.Fatalf("expected missing output error")
	}
	if _, err := c.Generate(testsupport.Context(), Request{}); err == nil {
		t.Fatalf("expected missing analysis error")
	}

	ctx, cancel := context.WithCancel(testsupport.Context())
	cancel()
	if _, err := c.Generate(ctx, Request{Analysis: schema.SourceFromFile("x.a.yaml")}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResultsSource(t *testing.T) {
	cases := map[string]string{
		"jamovi/ttest.a.yaml": "jamovi/ttest.r.yaml",
		"jamovi/anova.yaml":   "jamovi/anova.r.yaml",
	}
	for in, want := range cases {
		if got := ResultsSource(schema.SourceFromFS(in)).Location(); got != want {
			t.Errorf("%s: want %s, got %s", in, want, got)
		}
	}
}

func assertOrdered(t *testing.T, s string, parts ...string) {
	t.Helper()
	last := -1
	for _, part := range parts {
		idx := strings.Index(s, part)
		if idx < 0 {
			t.Fatalf("missing %q in:\n%s", part, s)
		}
		if idx <= last {
			t.Fatalf("%q out of order in:\n%s", part, s)
		}
		last = idx
	}
}
