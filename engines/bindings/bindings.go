// Package bindings describes the macro language surface as plain Go functions over a
// macro.Session, independent of any script engine. Engines convert their values to
// Args, call a Func and convert the result back: a Tuple becomes a tuple (or list),
// []any a list, and nil the engine's none value.
package bindings

import (
	"context"
	"maps"
	"slices"

	"github.com/robbyt/go-ijmacro/macro"
)

// Func is one callable of the macro surface.
type Func func(ctx context.Context, args Args) (any, error)

// Tuple is a fixed-order multi-value return, e.g. getThreshold() -> (lower, upper).
type Tuple []any

// Module is a dotted namespace such as Array or Dialog.
type Module struct {
	Name  string
	Funcs map[string]Func

	// Lookup resolves attributes not found in Funcs; nil for closed modules.
	Lookup func(name string) (Func, bool)

	// InPlace names the members that modify their first argument, an array, and
	// return it. Engines copy the modified values back into the script's list.
	InPlace map[string]bool
}

// Modifies reports whether member name changes its first argument in place.
func (m *Module) Modifies(name string) bool {
	return m.InPlace[name]
}

// Attr returns the named member.
func (m *Module) Attr(name string) (Func, bool) {
	if fn, ok := m.Funcs[name]; ok {
		return fn, true
	}
	if m.Lookup != nil {
		return m.Lookup(name)
	}
	return nil, false
}

// AttrNames returns the static member names, sorted.
func (m *Module) AttrNames() []string {
	return slices.Sorted(maps.Keys(m.Funcs))
}

// Surface is everything a script sees as a global.
type Surface struct {
	Funcs     map[string]Func
	Modules   map[string]*Module
	Constants map[string]any
}

// New binds the macro surface to s.
func New(s *macro.Session) *Surface {
	b := &binder{s: s}
	return &Surface{
		Funcs:     b.functions(),
		Modules:   b.modules(),
		Constants: constants(),
	}
}

// Names returns every global name of the surface, sorted. Compilers predeclare them.
func (sf *Surface) Names() []string {
	names := make([]string, 0, len(sf.Funcs)+len(sf.Modules)+len(sf.Constants))
	for n := range sf.Funcs {
		names = append(names, n)
	}
	for n := range sf.Modules {
		names = append(names, n)
	}
	for n := range sf.Constants {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// GlobalNames returns the global names without binding a session.
func GlobalNames() []string {
	return New(nil).Names()
}

type binder struct {
	s *macro.Session
}

// noArgs adapts a function that takes no arguments.
func noArgs(name string, f func(context.Context) (any, error)) Func {
	return func(ctx context.Context, args Args) (any, error) {
		r := args.reader(name)
		r.Max(0)
		if err := r.Err(); err != nil {
			return nil, err
		}
		return f(ctx)
	}
}

func none(err error) (any, error) { return nil, err }
