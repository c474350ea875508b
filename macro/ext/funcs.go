package ext

import (
	"context"
	"fmt"
	"sort"
)

// Func is one Go extension function.
type Func func(ctx context.Context, args []any) (any, error)

// Funcs is a Plugin made of Go functions.
type Funcs map[string]Func

// Functions returns the function names, sorted.
func (f Funcs) Functions() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Exports reports whether name is present.
func (f Funcs) Exports(name string) bool {
	_, ok := f[name]
	return ok
}

func (f Funcs) Call(ctx context.Context, name string, args []any) (any, error) {
	fn, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return fn(ctx, args)
}

func (f Funcs) Close(context.Context) error { return nil }
