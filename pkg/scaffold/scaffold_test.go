package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jonathon-love/jamovi-compiler/pkg/analysis"
	"github.com/jonathon-love/jamovi-compiler/pkg/registry"
	"github.com/jonathon-love/jamovi-compiler/pkg/validate"
	"github.com/jonathon-love/jamovi-compiler/pkg/value"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	confirm    []bool
	inputPos   int
	selectPos  int
	confirmPos int
	messages   []string
	err        error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func decode(t *testing.T, path string) *value.Map {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	v, err := value.Decode(data)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	m, ok := v.AsMap()
	if !ok {
		t.Fatalf("%s is not a mapping", path)
	}
	return m
}

func TestCreate_WritesValidPair(t *testing.T) {
	dir := t.TempDir()
	driver := &stubDriver{
		inputs:    []string{"corrTest", "Correlation"},
		selectIdx: []int{3},
		confirm:   []bool{true},
	}

	paths, err := New(WithDriver(driver)).Create(context.Background(), dir)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := Paths{
		Analysis: filepath.Join(dir, "corrTest.a.yaml"),
		Results:  filepath.Join(dir, "corrTest.r.yaml"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Analysis name", "Title", "Menu group", "Include a starter results table?"}, driver.messages); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}

	a := analysis.NewAnalysis(decode(t, paths.Analysis))
	r := analysis.NewResults(decode(t, paths.Results))

	if a.Name != "corrTest" || a.Title != "Correlation" {
		t.Fatalf("unexpected analysis header %q %q", a.Name, a.Title)
	}
	if got := a.Prop("menuGroup").Text(); got != "Regression" {
		t.Fatalf("expected menu group Regression, got %q", got)
	}
	if v, ok := a.Version(); !ok || v != AnalysisVersion {
		t.Fatalf("expected jas %q, got %q (%v)", AnalysisVersion, v, ok)
	}
	if v, ok := r.Version(); !ok || v != ResultsVersion {
		t.Fatalf("expected jrs %q, got %q (%v)", ResultsVersion, v, ok)
	}
	if len(r.Items) != 1 || r.Items[0].Kind != analysis.ResultTable {
		t.Fatalf("expected a single starter table, got %+v", r.Items)
	}

	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	if err := validate.New(reg).Analysis(a); err != nil {
		t.Fatalf("scaffolded analysis is invalid: %v", err)
	}
	if err := validate.New(reg).Results(r); err != nil {
		t.Fatalf("scaffolded results are invalid: %v", err)
	}
}

func TestWrite_WithoutTable(t *testing.T) {
	dir := t.TempDir()
	paths, err := Write(dir, Answers{Name: "demo", Title: "Demo"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	r := analysis.NewResults(decode(t, paths.Results))
	if len(r.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(r.Items))
	}
	a := decode(t, paths.Analysis)
	if a.Has("menuGroup") {
		t.Fatalf("menu group must be omitted when empty")
	}

	data, err := os.ReadFile(paths.Analysis)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\nname: demo\n") {
		t.Fatalf("unexpected document head: %q", data)
	}
	if !strings.Contains(string(data), `jas: "1.1"`) {
		t.Fatalf("version token must stay a string: %q", data)
	}
}

func TestWrite_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "demo.r.yaml")
	if err := os.WriteFile(existing, []byte("keep"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := Write(dir, Answers{Name: "demo", Title: "Demo"})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "demo.a.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("analysis document must not be written, stat: %v", err)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "keep" {
		t.Fatalf("existing document modified: %q", data)
	}
}

func TestValidateName(t *testing.T) {
	cases := map[string]bool{
		"ttest":     true,
		"anova.One": true,
		"x_1":       true,
		"1st":       false,
		"has space": false,
		"":          false,
	}
	for name, ok := range cases {
		err := ValidateName(name)
		if ok && err != nil {
			t.Errorf("%q: unexpected error %v", name, err)
		}
		if !ok && !errors.Is(err, ErrInvalidName) {
			t.Errorf("%q: expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestAsk_PropagatesDriverErrors(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	_, err := New(WithDriver(driver)).Ask(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestAsk_DefaultsTitleToName(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"demo", "  "},
		selectIdx: []int{0},
		confirm:   []bool{false},
	}
	answers, err := New(WithDriver(driver), WithMenuGroups("Custom")).Ask(context.Background())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	want := Answers{Name: "demo", Title: "demo", MenuGroup: "Custom"}
	if diff := cmp.Diff(want, answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}
