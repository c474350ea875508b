package compile

import (
	"context"
	"errors"
	"fmt"

	risorCompiler "github.com/risor-io/risor/compiler"
	risorErrors "github.com/risor-io/risor/errz"
	risorParser "github.com/risor-io/risor/parser"

	"github.com/robbyt/go-ijmacro/engines/risor/internal"
)

// Compile parses and compiles the script content into bytecode.
func Compile(scriptContent *string, options ...risorCompiler.Option) (*risorCompiler.Code, error) {
	if scriptContent == nil {
		return nil, ErrContentNil
	}

	ast, err := risorParser.Parse(context.Background(), *scriptContent)
	if err != nil {
		errMsg := err.Error()
		var friendlyErr risorErrors.FriendlyError
		if errors.As(err, &friendlyErr) {
			errMsg = friendlyErr.FriendlyErrorMessage()
		}
		return nil, fmt.Errorf("%w: %s", ErrCompileFailed, errMsg)
	}

	bc, err := risorCompiler.Compile(ast, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return bc, nil
}

// CompileWithGlobals compiles with Risor's default globals plus globals declared.
// The macro functions are bound per evaluation, so only their names are known here.
func CompileWithGlobals(scriptContent *string, globals []string) (*risorCompiler.Code, error) {
	return Compile(scriptContent, risorCompiler.WithGlobalNames(internal.GlobalNames(globals)))
}
