package install

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jonathon-love/jamovi-compiler/pkg/testsupport"
)

const description = `Package: jmvdemo
Type: Package
Depends: R (>= 3.2),
    jmvcore (>= 0.8.5),
    permute
Imports: R6, car,
  data.table
`

type fakeRunner struct {
	commands  []Command
	namespace string
	fail      map[int]error
	onBuild   func(cmd Command)
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) error {
	f.commands = append(f.commands, cmd)
	if err := f.fail[len(f.commands)]; err != nil {
		return err
	}
	if len(cmd.Args) > 1 && strings.HasPrefix(cmd.Args[len(cmd.Args)-2], "--library=") && f.onBuild != nil {
		f.onBuild(cmd)
	}
	return nil
}

type module struct {
	src    string
	module string
	build  string
}

func newModule(t *testing.T, desc string) module {
	t.Helper()
	root := t.TempDir()
	m := module{
		src:    filepath.Join(root, "src"),
		module: filepath.Join(root, "module"),
	}
	m.build = BuildDir(m.src)
	testsupport.WriteFile(t, m.src, "DESCRIPTION", desc)
	testsupport.WriteFile(t, m.src, "NAMESPACE", "import(jmvcore)\n")
	testsupport.WriteFile(t, m.src, "jamovi/ttest.a.yaml", "name: ttest\ntitle: T-Test\n")
	testsupport.WriteFile(t, m.src, "jamovi/anova.a.yaml", "name: anovaOneWay\n")
	testsupport.WriteFile(t, m.src, "R/ttest.b.R", "# body\n")
	return m
}

func (m module) request() Request {
	return Request{
		SourceDir: m.src,
		ModuleDir: m.module,
		RExe:      "/opt/R/bin/R",
		RHome:     "/opt/R",
		RLibs:     "/opt/R/library",
	}
}

func TestInstall_FullRun(t *testing.T) {
	m := newModule(t, description)
	testsupport.WriteFile(t, m.build, "car/DESCRIPTION", "Package: car\n")

	runner := &fakeRunner{}
	runner.onBuild = func(cmd Command) {
		staging := cmd.Args[len(cmd.Args)-1]
		runner.namespace = testsupport.ReadFile(t, filepath.Join(staging, "NAMESPACE"))
		if _, err := os.Stat(filepath.Join(staging, "build")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("build directory must not be staged: %v", err)
		}
		if _, err := os.Stat(filepath.Join(staging, "R", "ttest.b.R")); err != nil {
			t.Errorf("sources must be staged: %v", err)
		}
		testsupport.WriteFile(t, m.build, "jmvdemo/DESCRIPTION", "Package: jmvdemo\n")
	}

	var logs bytes.Buffer
	err := New(WithRunner(runner), WithLogger(log.New(&logs, "", 0)), WithPlatform("linux")).
		Install(context.Background(), m.request())
	if err != nil {
		t.Fatalf("install: %v", err)
	}

	if len(runner.commands) != 2 {
		t.Fatalf("expected two commands, got %d", len(runner.commands))
	}

	deps := runner.commands[0]
	wantExpr := "utils::install.packages(c('permute','data.table'), lib='" + m.build +
		"', repos=c('https://repo.jamovi.org', 'https://cran.r-project.org'), " +
		"INSTALL_opts=c('--no-data', '--no-help', '--no-demo'))"
	if diff := cmp.Diff([]string{"--slave", "-e", wantExpr}, deps.Args); deps.Name != "/opt/R/bin/R" || diff != "" {
		t.Fatalf("dependency command mismatch %s (-want +got):\n%s", deps.Name, diff)
	}
	for _, want := range []string{
		"R_LIBS=" + m.build,
		"R_LIBS_SITE=/opt/R/library",
		"R_LIBS_USER=notthere",
		"R_HOME=/opt/R",
	} {
		if !contains(deps.Env, want) {
			t.Errorf("environment missing %s", want)
		}
	}

	build := runner.commands[1]
	if build.Name != "/opt/R/bin/R" || build.Args[0] != "CMD" || build.Args[1] != "INSTALL" || build.Args[2] != "--library="+m.build {
		t.Fatalf("unexpected build command %+v", build)
	}

	wantNamespace := "import(jmvcore)\n" +
		"\nexport(anovaOneWay)\nexport(anovaOneWayClass)\nexport(anovaOneWayOptions)\n" +
		"\nexport(ttest)\nexport(ttestClass)\nexport(ttestOptions)\n"
	if runner.namespace != wantNamespace {
		t.Fatalf("NAMESPACE mismatch\nwant: %q\n got: %q", wantNamespace, runner.namespace)
	}
	if original := testsupport.ReadFile(t, filepath.Join(m.src, "NAMESPACE")); original != "import(jmvcore)\n" {
		t.Fatalf("source NAMESPACE must not change, got %q", original)
	}

	if _, err := os.Stat(filepath.Join(m.module, "R", "jmvdemo", "DESCRIPTION")); err != nil {
		t.Fatalf("library not copied into module: %v", err)
	}
	if !strings.Contains(logs.String(), "permute, data.table") {
		t.Fatalf("expected dependency list in logs, got %q", logs.String())
	}
}

func TestInstall_SkipsDependencyStepWhenNothingMissing(t *testing.T) {
	m := newModule(t, "Package: jmvdemo\nDepends: R, jmvcore\nImports: R6, psych\n")
	runner := &fakeRunner{}

	req := m.request()
	req.Analyses = []string{"ttest"}
	if err := New(WithRunner(runner), WithIncluded("psych")).Install(context.Background(), req); err != nil {
		t.Fatalf("install: %v", err)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected only the build command, got %+v", runner.commands)
	}
}

func TestInstall_CommandForms(t *testing.T) {
	cases := []struct {
		name     string
		platform string
		rhome    string
		wantName string
		wantArgs int
	}{
		{"darwin", "darwin", "/Library/R", "/Library/R/bin/INSTALL", 2},
		{"with home", "linux", "/opt/R", "/opt/R/bin/R", 4},
		{"plain", "linux", "", "R", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newModule(t, "Package: jmvdemo\n")
			runner := &fakeRunner{}
			req := m.request()
			req.RHome = tc.rhome

			if err := New(WithRunner(runner), WithPlatform(tc.platform)).Install(context.Background(), req); err != nil {
				t.Fatalf("install: %v", err)
			}
			cmd := runner.commands[len(runner.commands)-1]
			if cmd.Name != tc.wantName || len(cmd.Args) != tc.wantArgs {
				t.Fatalf("unexpected command %+v", cmd)
			}
		})
	}
}

func TestInstall_Failures(t *testing.T) {
	boom := errors.New("exit status 1")

	m := newModule(t, description)
	err := New(WithRunner(&fakeRunner{fail: map[int]error{1: boom}})).Install(context.Background(), m.request())
	if !errors.Is(err, ErrDependencies) {
		t.Fatalf("expected ErrDependencies, got %v", err)
	}

	m = newModule(t, description)
	err = New(WithRunner(&fakeRunner{fail: map[int]error{2: boom}})).Install(context.Background(), m.request())
	if !errors.Is(err, ErrBuild) {
		t.Fatalf("expected ErrBuild, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(m.module, "R")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("module library must not be created after a failed build")
	}

	m = newModule(t, description)
	if err := os.Remove(filepath.Join(m.src, "DESCRIPTION")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := New(WithRunner(&fakeRunner{})).Install(context.Background(), m.request()); err == nil {
		t.Fatalf("expected missing DESCRIPTION error")
	}

	if err := New().Install(context.Background(), Request{}); err == nil {
		t.Fatalf("expected missing directories error")
	}
}

func TestDiscoverAnalyses(t *testing.T) {
	m := newModule(t, description)
	testsupport.WriteFile(t, m.src, "jamovi/unnamed.a.yaml", "title: Untitled\n")

	names, err := DiscoverAnalyses(m.src)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if diff := cmp.Diff([]string{"anovaOneWay", "ttest", "unnamed"}, names); diff != "" {
		t.Fatalf("analyses mismatch (-want +got):\n%s", diff)
	}
}

func contains(env []string, prefix string) bool {
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}
	return false
}
