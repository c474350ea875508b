package internal

import (
	"context"
	"fmt"
	"slices"

	"github.com/risor-io/risor/object"

	"github.com/robbyt/go-ijmacro/engines/bindings"
)

// SurfaceGlobals returns the macro surface as Risor globals. Keyword constants (true,
// false) are left to Risor.
func SurfaceGlobals(sf *bindings.Surface) (map[string]any, error) {
	globals := make(map[string]any, len(sf.Funcs)+len(sf.Modules)+len(sf.Constants))
	for name, fn := range sf.Funcs {
		globals[name] = newBuiltin(name, fn, false)
	}
	for name, m := range sf.Modules {
		globals[name] = newModule(m)
	}
	for name, c := range sf.Constants {
		if slices.Contains(keywords, name) {
			continue
		}
		o, err := ToObject(c)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", name, err)
		}
		globals[name] = o
	}
	return globals, nil
}

func newBuiltin(name string, fn bindings.Func, inPlace bool) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		goArgs := make(bindings.Args, len(args))
		for i, a := range args {
			goArgs[i] = FromObject(a)
		}
		out, err := fn(ctx, goArgs)
		if err != nil {
			return object.NewError(err)
		}
		if inPlace && len(args) > 0 {
			if l, ok := args[0].(*object.List); ok {
				if err := writeBack(l, goArgs[0]); err != nil {
					return object.NewError(fmt.Errorf("%s: %w", name, err))
				}
				return l
			}
		}
		o, err := ToObject(out)
		if err != nil {
			return object.NewError(fmt.Errorf("%s: %w", name, err))
		}
		return o
	})
}

// writeBack stores the elements of a modified argument into the script's list.
func writeBack(l *object.List, modified any) error {
	items, ok := modified.([]any)
	if !ok || len(items) != l.Size() {
		return fmt.Errorf("cannot update list of length %d in place", l.Size())
	}
	for i, item := range items {
		o, err := ToObject(item)
		if err != nil {
			return err
		}
		if e := l.SetItem(object.NewInt(int64(i)), o); e != nil {
			return e.Value()
		}
	}
	return nil
}

// module resolves attributes through the bindings module on every access, so
// extensions installed with Ext.install can be called as Ext.name(...).
type module struct {
	*object.Module
	m *bindings.Module
}

func newModule(m *bindings.Module) *module {
	static := make(map[string]object.Object, len(m.Funcs))
	for name, fn := range m.Funcs {
		static[name] = newBuiltin(m.Name+"."+name, fn, m.Modifies(name))
	}
	return &module{Module: object.NewBuiltinsModule(m.Name, static), m: m}
}

func (m *module) GetAttr(name string) (object.Object, bool) {
	fn, ok := m.m.Attr(name)
	if !ok {
		return m.Module.GetAttr(name)
	}
	return newBuiltin(m.m.Name+"."+name, fn, m.m.Modifies(name)), true
}
