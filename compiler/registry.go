package compiler

import (
	"iter"
	"log/slog"

	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/widget"
)

// Param is a construction or draw parameter of a compiled widget.
type Param struct {
	Ename  string
	Pname  string
	Dotted string
	// Default is the default value text in the generated signature.
	Default string
	// Appearance marks parameters declared under appearance.
	Appearance bool
}

// Entry is the metadata of a compiled widget that later widgets rely on.
type Entry struct {
	Name   string
	Kind   widget.Kind
	Module string
	// Params is the construction signature in order, excluding name.
	Params []Param
	// Draw is the appearance parameters accepted by draw, excluding pos.
	Draw []Param
}

// Factory reports whether the widget is generated as a function returning an
// instance of its base rather than as a class.
func (e *Entry) Factory() bool { return e.Kind == widget.KindSpecializes }

// Param returns the construction parameter with the given ename or pname.
func (e *Entry) Param(name string) (Param, bool) {
	for _, p := range e.Params {
		if p.Ename == name || p.Pname == name {
			return p, true
		}
	}

	return Param{}, false
}

// Registry is the append-only, declaration-ordered set of compiled widgets.
type Registry struct {
	order   []string
	entries map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Add registers e. A name may be registered only once.
func (r *Registry) Add(e *Entry) error {
	if _, ok := r.entries[e.Name]; ok {
		return lang.ErrDuplicateName.With(slog.String("widget", e.Name))
	}

	r.order = append(r.order, e.Name)
	r.entries[e.Name] = e

	return nil
}

// Lookup returns the widget registered as name. Widgets are registered once
// compiled, so a reference to a widget declared later fails.
func (r *Registry) Lookup(name string) (*Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, lang.ErrUnknownWidget.With(slog.String("widget", name))
	}

	return e, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]

	return ok
}

// Len returns the number of registered widgets.
func (r *Registry) Len() int { return len(r.order) }

// All yields the registered widgets in registration order.
func (r *Registry) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, name := range r.order {
			if !yield(r.entries[name]) {
				return
			}
		}
	}
}
