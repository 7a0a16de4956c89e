package render

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

// Registry stores template sources by name, providing discovery and
// duplication safeguards.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]string),
	}
}

// Register adds a template body under name. Duplicate names return an error.
func (r *Registry) Register(name, body string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("render: template name is required")
	}
	if body == "" {
		return fmt.Errorf("render: template %q is empty", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[name]; exists {
		return fmt.Errorf("render: template %q already registered", name)
	}

	r.templates[name] = body
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name, body string) {
	if err := r.Register(name, body); err != nil {
		panic(err)
	}
}

// RegisterFS registers every *.tpl file at the root of files under its base
// name without extension.
func (r *Registry) RegisterFS(files fs.FS) error {
	matches, err := fs.Glob(files, "*"+TemplateExt)
	if err != nil {
		return fmt.Errorf("render: list templates: %w", err)
	}
	for _, match := range matches {
		data, err := fs.ReadFile(files, match)
		if err != nil {
			return fmt.Errorf("render: read template %q: %w", match, err)
		}
		if err := r.Register(strings.TrimSuffix(match, TemplateExt), string(data)); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a template body by name.
func (r *Registry) Get(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	body, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("render: template %q not found", name)
	}
	return body, nil
}

// List returns a sorted list of template names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a template is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.templates[name]
	return ok
}
