package compile

import (
	"fmt"
	"maps"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/robbyt/go-ijmacro/engines/starlark/internal"
)

// compile parses and resolves the script against the standard modules and globals.
func compile(
	scriptBodyBytes []byte,
	opts *syntax.FileOptions,
	globals starlarkLib.StringDict,
) (*starlarkLib.Program, error) {
	if scriptBodyBytes == nil {
		return nil, ErrContentNil
	}
	if opts == nil {
		opts = &syntax.FileOptions{}
	}

	merged := internal.StarlarkModules()
	maps.Copy(merged, globals)

	f, err := opts.Parse("macro.star", scriptBodyBytes, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	prog, err := starlarkLib.FileProgram(f, merged.Has)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return prog, nil
}

// CompileWithEmptyGlobals compiles the script with globals declared but unbound. The
// macro functions and the ctx dict only exist once a session is created at eval time,
// so the compiler only needs their names.
func CompileWithEmptyGlobals(
	scriptBodyBytes []byte,
	globals []string,
) (*starlarkLib.Program, error) {
	opts := &syntax.FileOptions{
		// Macros assign at top level freely and use while loops and recursion.
		GlobalReassign:  true,
		While:           true,
		TopLevelControl: true,
		Recursion:       true,
		Set:             true,
	}

	stdModules := internal.StarlarkModules()
	predeclared := make(starlarkLib.StringDict, len(globals))
	for _, name := range globals {
		if stdModules.Has(name) {
			continue
		}
		predeclared[name] = starlarkLib.None
	}

	return compile(scriptBodyBytes, opts, predeclared)
}
