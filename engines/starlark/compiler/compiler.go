// Package compiler resolves macro scripts written in Starlark. Every name of the macro
// surface is predeclared, so a typo such as getPixle() fails at compile time instead
// of halfway through a run.
package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/robbyt/go-ijmacro/engines/starlark/compiler/internal/compile"
	"github.com/robbyt/go-ijmacro/platform/script"
)

type Compiler struct {
	globals    []string
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Compiler. The macro surface and ctx are always declared; WithGlobals
// adds more names.
func New(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
	c.applyDefaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}

	c.setupLogger()
	return c, nil
}

func (c *Compiler) String() string {
	return "starlark.Compiler"
}

// Compile reads, closes and compiles the script.
func (c *Compiler) Compile(scriptReader io.ReadCloser) (script.ExecutableContent, error) {
	logger := c.logger.WithGroup("Compile")
	if scriptReader == nil {
		return nil, ErrContentNil
	}

	scriptBodyBytes, err := io.ReadAll(scriptReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	if err := scriptReader.Close(); err != nil {
		return nil, fmt.Errorf("failed to close reader: %w", err)
	}
	if len(scriptBodyBytes) == 0 {
		return nil, ErrContentNil
	}

	prog, err := compile.CompileWithEmptyGlobals(scriptBodyBytes, c.globals)
	if err != nil {
		logger.Debug("compilation failed", "error", err)
		if errors.Is(err, compile.ErrContentNil) {
			return nil, ErrContentNil
		}
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if prog == nil {
		return nil, ErrBytecodeNil
	}

	exe := newExecutable(scriptBodyBytes, prog)
	if exe == nil {
		return nil, ErrExecCreationFailed
	}
	logger.Debug("compiled", "bytes", len(scriptBodyBytes), "globals", len(c.globals))
	return exe, nil
}
