package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathon-love/jamovi-compiler/pkg/analysis"
)

// Compatibility tokens written into new documents.
const (
	AnalysisVersion = "1.1"
	ResultsVersion  = "1.1"
)

// ErrExists is returned when one of the target documents already exists.
var ErrExists = errors.New("scaffold: document already exists")

// ErrInvalidName is returned for analysis names that are not valid R
// identifiers.
var ErrInvalidName = errors.New("scaffold: invalid analysis name")

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]*$`)

// DefaultMenuGroups lists the menu groups offered when none are configured.
var DefaultMenuGroups = []string{
	"Exploration",
	"T-Tests",
	"ANOVA",
	"Regression",
	"Frequencies",
	"Factor",
}

// Answers holds everything needed to write a new analysis pair.
type Answers struct {
	Name      string
	Title     string
	MenuGroup string
	Table     bool
}

// Paths are the documents written by Write.
type Paths struct {
	Analysis string
	Results  string
}

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithDriver overrides the prompt driver.
func WithDriver(driver PromptDriver) Option {
	return func(s *Scaffolder) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithMenuGroups replaces the offered menu groups.
func WithMenuGroups(groups ...string) Option {
	return func(s *Scaffolder) {
		if len(groups) > 0 {
			s.groups = append([]string(nil), groups...)
		}
	}
}

// Scaffolder creates new analysis definitions.
type Scaffolder struct {
	driver PromptDriver
	groups []string
}

// New constructs a Scaffolder prompting on the terminal unless another
// driver is supplied.
func New(options ...Option) *Scaffolder {
	s := &Scaffolder{}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	if len(s.groups) == 0 {
		s.groups = DefaultMenuGroups
	}
	return s
}

// Create asks for the analysis details and writes the pair into dir.
func (s *Scaffolder) Create(ctx context.Context, dir string) (Paths, error) {
	answers, err := s.Ask(ctx)
	if err != nil {
		return Paths{}, err
	}
	return Write(dir, answers)
}

// Ask collects Answers through the prompt driver.
func (s *Scaffolder) Ask(ctx context.Context) (Answers, error) {
	var answers Answers

	name, err := s.driver.Input(ctx, InputConfig{
		Message:   "Analysis name",
		Help:      "Used for the R function and the document file names",
		Validator: ValidateName,
	})
	if err != nil {
		return Answers{}, fmt.Errorf("scaffold: prompt name: %w", err)
	}
	answers.Name = strings.TrimSpace(name)

	title, err := s.driver.Input(ctx, InputConfig{
		Message: "Title",
		Default: answers.Name,
	})
	if err != nil {
		return Answers{}, fmt.Errorf("scaffold: prompt title: %w", err)
	}
	answers.Title = strings.TrimSpace(title)
	if answers.Title == "" {
		answers.Title = answers.Name
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message: "Menu group",
		Options: s.groups,
	})
	if err != nil {
		return Answers{}, fmt.Errorf("scaffold: prompt menu group: %w", err)
	}
	if idx >= 0 && idx < len(s.groups) {
		answers.MenuGroup = s.groups[idx]
	}

	answers.Table, err = s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Include a starter results table?",
		Default: true,
	})
	if err != nil {
		return Answers{}, fmt.Errorf("scaffold: prompt results table: %w", err)
	}
	return answers, nil
}

// ValidateName reports whether name can be used as an analysis name.
func ValidateName(name string) error {
	if !namePattern.MatchString(strings.TrimSpace(name)) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Write renders the analysis pair for answers into dir. Nothing is written
// when either document already exists.
func Write(dir string, answers Answers) (Paths, error) {
	if err := ValidateName(answers.Name); err != nil {
		return Paths{}, err
	}
	paths := Paths{
		Analysis: filepath.Join(dir, answers.Name+".a.yaml"),
		Results:  filepath.Join(dir, answers.Name+".r.yaml"),
	}
	for _, path := range []string{paths.Analysis, paths.Results} {
		if _, err := os.Stat(path); err == nil {
			return Paths{}, fmt.Errorf("%w: %s", ErrExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return Paths{}, fmt.Errorf("scaffold: stat %s: %w", path, err)
		}
	}

	analysisDoc, err := encode(AnalysisDocument(answers))
	if err != nil {
		return Paths{}, err
	}
	resultsDoc, err := encode(ResultsDocument(answers))
	if err != nil {
		return Paths{}, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("scaffold: create %s: %w", dir, err)
	}
	if err := create(paths.Analysis, analysisDoc); err != nil {
		return Paths{}, err
	}
	if err := create(paths.Results, resultsDoc); err != nil {
		os.Remove(paths.Analysis)
		return Paths{}, err
	}
	return paths, nil
}

// AnalysisDocument builds the analysis definition for answers.
func AnalysisDocument(answers Answers) *yaml.Node {
	doc := mapping(
		"name", str(answers.Name),
		"title", str(answers.Title),
	)
	if answers.MenuGroup != "" {
		doc.Content = append(doc.Content, str("menuGroup"), str(answers.MenuGroup))
	}
	doc.Content = append(doc.Content,
		str("version"), quoted("1.0.0"),
		str(analysis.AnalysisVersionKey), quoted(AnalysisVersion),
		str("options"), sequence(
			mapping("name", str("data"), "type", str("Data")),
		),
	)
	return doc
}

// ResultsDocument builds the results definition for answers.
func ResultsDocument(answers Answers) *yaml.Node {
	items := sequence()
	if answers.Table {
		items.Content = append(items.Content, mapping(
			"name", str("table"),
			"title", str(answers.Title),
			"type", str("Table"),
			"rows", integer(1),
			"columns", sequence(
				mapping(
					"name", str("var"),
					"title", quoted(""),
					"type", str("text"),
				),
			),
		))
	}
	return mapping(
		"name", str(answers.Name),
		"title", str(answers.Title),
		analysis.ResultsVersionKey, quoted(ResultsVersion),
		"items", items,
	)
}

func encode(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("scaffold: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("scaffold: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func create(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("scaffold: create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("scaffold: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("scaffold: write %s: %w", path, err)
	}
	return nil
}

// mapping builds a mapping node from alternating keys and value nodes.
func mapping(pairs ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		val, _ := pairs[i+1].(*yaml.Node)
		n.Content = append(n.Content, str(key), val)
	}
	return n
}

func sequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
}

func integer(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(n)}
}
