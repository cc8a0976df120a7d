// Package registry collects the flow functions a build compiles into a
// graph. Modules register plain functions, creator-decorated stubs, and
// injector-decorated functions; the graph builder walks the entries in
// registration order.
package registry

import (
	"fmt"

	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/modifiers"
)

// Module is the interface flow modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Entry is one registered declaration. Exactly one of Creator and
// Injector may be set; both nil means a plain function.
type Entry struct {
	Fn       *function.Func
	Creator  modifiers.NodeCreator
	Injector modifiers.NodeInjector
}

// Registry holds the registered declarations for one application instance.
type Registry struct {
	entries []*Entry
	byName  map[string]bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]bool)}
}

// RegisterFunc registers a plain function as a node source.
func (r *Registry) RegisterFunc(fn *function.Func) {
	r.add(&Entry{Fn: fn})
}

// RegisterCreated registers a stub whose nodes are synthesized by a
// NodeCreator decorator.
func (r *Registry) RegisterCreated(fn *function.Func, creator modifiers.NodeCreator) {
	r.add(&Entry{Fn: fn, Creator: creator})
}

// RegisterInjected registers a function whose first input is expanded by
// a NodeInjector decorator.
func (r *Registry) RegisterInjected(fn *function.Func, injector modifiers.NodeInjector) {
	r.add(&Entry{Fn: fn, Injector: injector})
}

// Entries returns the registered declarations in registration order.
func (r *Registry) Entries() []*Entry {
	return append([]*Entry(nil), r.entries...)
}

// RequiredConfig aggregates the configuration keys required by every
// registered decorator that declares any.
func (r *Registry) RequiredConfig() []string {
	var out []string
	for _, e := range r.entries {
		if req, ok := e.Creator.(modifiers.ConfigRequirer); ok {
			out = append(out, req.RequireConfig()...)
		}
	}
	return out
}

func (r *Registry) add(e *Entry) {
	// Duplicate registration is a programmer error, caught at startup.
	if r.byName[e.Fn.Name] {
		panic(fmt.Sprintf("flow function %q already registered", e.Fn.Name))
	}
	r.byName[e.Fn.Name] = true
	r.entries = append(r.entries, e)
}
