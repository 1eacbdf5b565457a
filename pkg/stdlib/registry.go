// Package stdlib provides the AVLisp built-in procedure registry.
package stdlib

import (
	"sort"

	"github.com/robert-porter/avlisp/pkg/evaluator"
)

// Fn represents a built-in procedure with a fixed parameter list.
type Fn struct {
	Name    string
	Params  []string
	Execute func(args []evaluator.Value) (evaluator.Value, error)
}

// Registry holds registered built-in procedures.
type Registry struct {
	fns map[string]*Fn
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]*Fn),
	}
}

// Default returns a registry holding every default built-in.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// Register adds a built-in to the registry, replacing any entry of the same name.
func (r *Registry) Register(fn Fn) {
	r.fns[fn.Name] = &fn
}

// Get retrieves a built-in by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// All returns all registered built-ins.
func (r *Registry) All() map[string]*Fn {
	return r.fns
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Without returns a copy of r with the named entries removed.
// Unknown names are ignored.
func (r *Registry) Without(names ...string) *Registry {
	deny := make(map[string]bool, len(names))
	for _, n := range names {
		deny[n] = true
	}
	out := NewRegistry()
	for name, fn := range r.fns {
		if !deny[name] {
			out.fns[name] = fn
		}
	}
	return out
}

// Builtins converts the registry into the values bound in the global frame.
func (r *Registry) Builtins() map[string]*evaluator.Builtin {
	out := make(map[string]*evaluator.Builtin, len(r.fns))
	for name, fn := range r.fns {
		out[name] = &evaluator.Builtin{
			Name:    fn.Name,
			Params:  append([]string(nil), fn.Params...),
			Execute: fn.Execute,
		}
	}
	return out
}
