package plugins

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// ErrUnknownPlugin is returned when opening a reference nobody registered.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Ref identifies a plugin registered under a discovery group.
type Ref struct {
	Group string `json:"group" yaml:"group"`
	Name  string `json:"name" yaml:"name"`
}

func (r Ref) String() string { return r.Group + ":" + r.Name }

// Factory constructs a plugin instance from its raw configuration.
type Factory func(conf map[string]any) (any, error)

// Registry stores plugin factories keyed by group and name.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]map[string]Factory
}

// Default is the process-wide registry plugins register into.
var Default = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]map[string]Factory)}
}

// Register adds a factory under group/name.
func (r *Registry) Register(group, name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("factory nil for %s:%s", group, name)
	}
	if group == "" || name == "" {
		return fmt.Errorf("plugin group and name are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[group]
	if !ok {
		g = make(map[string]Factory)
		r.groups[group] = g
	}
	if _, ok := g[name]; ok {
		return fmt.Errorf("plugin already registered for %s:%s", group, name)
	}
	g[name] = f
	return nil
}

// Discover returns every reference registered under group, sorted by name.
// An unknown group yields an empty slice.
func (r *Registry) Discover(group string) []Ref {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g := r.groups[group]
	refs := make([]Ref, 0, len(g))
	for name := range g {
		refs = append(refs, Ref{Group: group, Name: name})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs
}

// Open instantiates the plugin behind ref.
func (r *Registry) Open(ref Ref, conf map[string]any) (any, error) {
	r.mu.RLock()
	f, ok := r.groups[ref.Group][ref.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownPlugin, ref)
	}
	return f(conf)
}

// Decode fills out the provided struct using json tags.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
