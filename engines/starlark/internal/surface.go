package internal

import (
	"context"
	"fmt"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-ijmacro/engines/bindings"
)

const contextLocal = "ijmacro.context"

// SetContext makes ctx available to macro builtins called on thread.
func SetContext(thread *starlarkLib.Thread, ctx context.Context) {
	thread.SetLocal(contextLocal, ctx)
}

func contextOf(thread *starlarkLib.Thread) context.Context {
	if ctx, ok := thread.Local(contextLocal).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// SurfaceGlobals turns the macro surface into Starlark globals.
func SurfaceGlobals(sf *bindings.Surface) (starlarkLib.StringDict, error) {
	globals := make(starlarkLib.StringDict, len(sf.Funcs)+len(sf.Modules)+len(sf.Constants))
	for name, fn := range sf.Funcs {
		globals[name] = newBuiltin(name, fn, false)
	}
	for name, m := range sf.Modules {
		globals[name] = &module{m: m}
	}
	for name, c := range sf.Constants {
		v, err := ConvertToStarlarkValue(c)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", name, err)
		}
		globals[name] = v
	}
	return globals, nil
}

func newBuiltin(name string, fn bindings.Func, inPlace bool) *starlarkLib.Builtin {
	return starlarkLib.NewBuiltin(name, func(
		thread *starlarkLib.Thread,
		b *starlarkLib.Builtin,
		args starlarkLib.Tuple,
		kwargs []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: keyword arguments are not supported", b.Name())
		}
		goArgs := make(bindings.Args, len(args))
		for i, a := range args {
			v, err := ConvertStarlarkValueToInterface(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", b.Name(), i+1, err)
			}
			goArgs[i] = v
		}

		out, err := fn(contextOf(thread), goArgs)
		if err != nil {
			return nil, err
		}
		if inPlace && len(args) > 0 {
			if l, ok := args[0].(*starlarkLib.List); ok {
				if err := writeBack(l, goArgs[0]); err != nil {
					return nil, fmt.Errorf("%s: %w", b.Name(), err)
				}
				return l, nil
			}
		}
		return ConvertToStarlarkValue(out)
	})
}

// writeBack stores the elements of a modified argument into the script's list.
func writeBack(l *starlarkLib.List, modified any) error {
	items, ok := modified.([]any)
	if !ok || len(items) != l.Len() {
		return fmt.Errorf("cannot update list of length %d in place", l.Len())
	}
	for i, item := range items {
		v, err := ConvertToStarlarkValue(item)
		if err != nil {
			return err
		}
		if err := l.SetIndex(i, v); err != nil {
			return err
		}
	}
	return nil
}

// module exposes a bindings.Module, e.g. Array.sort(a), with attributes resolved on
// every access so installed extensions show up under Ext.
type module struct {
	m *bindings.Module
}

var _ starlarkLib.HasAttrs = (*module)(nil)

func (m *module) String() string          { return fmt.Sprintf("<module %s>", m.m.Name) }
func (m *module) Type() string            { return "module" }
func (m *module) Freeze()                 {}
func (m *module) Truth() starlarkLib.Bool { return starlarkLib.True }

func (m *module) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: module")
}

func (m *module) Attr(name string) (starlarkLib.Value, error) {
	fn, ok := m.m.Attr(name)
	if !ok {
		return nil, nil
	}
	return newBuiltin(m.m.Name+"."+name, fn, m.m.Modifies(name)), nil
}

func (m *module) AttrNames() []string {
	return m.m.AttrNames()
}
