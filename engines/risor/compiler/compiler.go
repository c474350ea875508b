// Package compiler turns Risor macro scripts into bytecode with the macro surface and
// ctx declared as globals.
package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/robbyt/go-ijmacro/engines/risor/compiler/internal/compile"
	"github.com/robbyt/go-ijmacro/platform/script"
)

type Compiler struct {
	globals    []string
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Risor Compiler.
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
	return "risor.Compiler"
}

// Compile reads, closes and compiles the script.
func (c *Compiler) Compile(scriptReader io.ReadCloser) (script.ExecutableContent, error) {
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
	return c.compile(scriptBodyBytes)
}

func (c *Compiler) compile(scriptBodyBytes []byte) (*Executable, error) {
	logger := c.logger.WithGroup("compile")
	if len(scriptBodyBytes) == 0 {
		return nil, ErrContentNil
	}
	scriptContent := string(scriptBodyBytes)
	if isCommentOnly(scriptContent) {
		logger.Warn("script has no instructions")
		return nil, ErrNoInstructions
	}

	bc, err := compile.CompileWithGlobals(&scriptContent, c.globals)
	if err != nil {
		logger.Debug("compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if bc == nil {
		return nil, ErrBytecodeNil
	}
	if bc.InstructionCount() < 1 {
		return nil, ErrNoInstructions
	}

	exe := newExecutable(scriptBodyBytes, bc)
	if exe == nil {
		return nil, ErrExecCreationFailed
	}
	logger.Debug("compiled", "instructions", bc.InstructionCount())
	return exe, nil
}

func isCommentOnly(src string) bool {
	for line := range strings.SplitSeq(src, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "//") {
			return false
		}
	}
	return true
}
